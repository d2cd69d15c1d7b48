package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ToHTTPResponse транслирует ошибку приложения в статус и тело ответа.
// Валидация — 400, отсутствие ресурса — 404, дубликат SKU — 409,
// нехватка остатка — 422, всё остальное — 500.
func ToHTTPResponse(err error) (int, *ErrorResponse) {
	var vErr *e.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, &ErrorResponse{
			Success: false,
			Error:   "validation failed",
			Detail:  vErr.Fields,
		}
	}

	var nfErr *e.NotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusNotFound, &ErrorResponse{
			Success: false,
			Error:   nfErr.Error(),
		}
	}

	var dupErr *e.DuplicateError
	if errors.As(err, &dupErr) {
		return http.StatusConflict, &ErrorResponse{
			Success: false,
			Error:   dupErr.Error(),
		}
	}

	var stockErr *e.InsufficientStockError
	if errors.As(err, &stockErr) {
		return http.StatusUnprocessableEntity, &ErrorResponse{
			Success: false,
			Error:   "insufficient stock",
			Detail: map[string]int{
				"available": stockErr.Available,
				"requested": stockErr.Requested,
			},
		}
	}

	switch {
	case errors.Is(err, e.ErrStatusBadRequest),
		errors.Is(err, e.ErrExpectedMultipart),
		errors.Is(err, e.ErrExpectedJSON),
		errors.Is(err, e.ErrMissingFields),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrInvalidProductID),
		errors.Is(err, e.ErrFileTooLarge),
		errors.Is(err, e.ErrEmptyFile),
		errors.Is(err, e.ErrNoImportFile):
		return http.StatusBadRequest, &ErrorResponse{
			Success: false,
			Error:   err.Error(),
		}
	default:
		return http.StatusInternalServerError, &ErrorResponse{
			Success: false,
			Error:   e.ErrInternalServerError.Error(),
		}
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, body := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// parsePrice разбирает цену из строки: валидное десятичное число,
// не более двух знаков после запятой. Положительность проверяет домен.
func parsePrice(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, e.ErrMissingFields
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return decimal.Zero, e.ErrPricePrecision
	}

	return d, nil
}

// parseDate разбирает дату в формате YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// parseProductID извлекает положительный идентификатор продукта из пути.
func parseProductID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidProductID
	}

	return id, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.ErrExpectedMultipart
	}
	return r.ParseMultipartForm(maxMemory)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parsePhoto читает приложенный файл фото. Отсутствие файла — не ошибка.
func parsePhoto(r *http.Request, maxSize int64) (*usecase.ProductPhoto, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File["photo"]
	if len(files) == 0 {
		return nil, nil
	}

	data, err := readFile(files[0], maxSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewProductPhoto(data, files[0].Filename, int64(len(data))), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, e.Wrap(fh.Filename, e.ErrEmptyFile)
	}

	return data, nil
}

// queryInt разбирает необязательный целочисленный параметр запроса.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, e.Wrap(name, e.ErrStatusBadRequest)
	}

	return &v, nil
}

// queryString возвращает необязательный строковый параметр запроса.
func queryString(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}

	return &raw
}
