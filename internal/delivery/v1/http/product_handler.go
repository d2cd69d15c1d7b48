package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
	maxPhotoSize   int64
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger, maxPhotoSize int64) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger, maxPhotoSize: maxPhotoSize}
}

// productPayload — поля продукта из JSON-тела или multipart-формы.
type productPayload struct {
	SKU            string      `json:"sku"`
	Name           string      `json:"name"`
	ExpirationDate string      `json:"expiration_date"`
	Quantity       int         `json:"quantity"`
	Price          json.Number `json:"price"`
	Location       string      `json:"location"`
	Description    string      `json:"description"`
	ProductType    string      `json:"product_type"`
	ProviderID     string      `json:"provider_id"`
}

// stockPayload — тело запроса корректировки остатка.
type stockPayload struct {
	Operation string `json:"operation"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// createProduct
//
//	@Summary		Регистрация нового продукта
//	@Description	Создаёт продукт склада; принимает JSON или multipart/form-data с фото
//	@Tags			products
//	@Accept			json
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			sku				formData	string	true	"SKU в формате MED-XXXX"
//	@Param			name			formData	string	true	"Название"
//	@Param			expiration_date	formData	string	true	"Срок годности (YYYY-MM-DD)"
//	@Param			quantity		formData	integer	true	"Количество"
//	@Param			price			formData	number	true	"Цена"
//	@Param			location		formData	string	true	"Ячейка хранения (X-00-00)"
//	@Param			product_type	formData	string	true	"Тип продукта"
//	@Param			photo			formData	file	false	"Фото продукта"
//	@Success		201	{object}	SuccessResponse
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409	{object}	ErrorResponse	"SKU уже зарегистрирован"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 8 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	req, err := p.parseCreateRequest(r, maxMemory)
	if err != nil {
		p.logger.Warnf("create product: bad request: %s", err.Error())
		WriteError(w, err)
		return
	}

	info, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("create product failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, "Producto creado exitosamente", toProductResponse(info))
}

// getProduct
//
//	@Summary	Получение продукта по ID
//	@Tags		products
//	@Produce	json
//	@Param		id	path		integer	true	"ID продукта"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("get product %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "", toProductResponse(info))
}

// listProducts
//
//	@Summary	Список всех продуктов
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	infos, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Warnf("list products failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"products": toArrProductResponse(infos),
		"total":    len(infos),
	})
}

// updateProduct
//
//	@Summary	Полное обновление продукта
//	@Tags		products
//	@Accept		json
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id	path		integer	true	"ID продукта"
//	@Success	200	{object}	SuccessResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	payload, photo, err := p.parseProductPayload(r, maxMemory)
	if err != nil {
		p.logger.Warnf("update product %d: bad request: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	price, expiration, err := p.parsePriceAndDate(payload)
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := p.productUsecase.UpdateProduct(r.Context(), &usecase.UpdateProductReq{
		ID:             id,
		Name:           payload.Name,
		ExpirationDate: expiration,
		Quantity:       payload.Quantity,
		Price:          price,
		Location:       payload.Location,
		Description:    payload.Description,
		ProductType:    payload.ProductType,
		ProviderID:     payload.ProviderID,
		Photo:          photo,
	})
	if err != nil {
		p.logger.Warnf("update product %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Producto actualizado exitosamente", toProductResponse(info))
}

// updateStock
//
//	@Summary		Корректировка остатка продукта
//	@Description	Добавляет или списывает количество; списание сверх остатка отклоняется
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		integer			true	"ID продукта"
//	@Param			body	body		stockPayload	true	"Операция и количество"
//	@Success		200		{object}	SuccessResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Продукт не найден"
//	@Failure		422		{object}	ErrorResponse	"Недостаточный остаток"
//	@Router			/products/{id}/stock [put]
func (p *ProductHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var payload stockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, e.ErrExpectedJSON)
		return
	}

	res, err := p.productUsecase.UpdateStock(r.Context(), &usecase.UpdateStockReq{
		ProductID: id,
		Operation: payload.Operation,
		Quantity:  payload.Quantity,
		Reason:    payload.Reason,
	})
	if err != nil {
		p.logger.Warnf("update stock for product %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Stock actualizado exitosamente", StockResponse{
		ProductID:        res.ProductID,
		PreviousQuantity: res.PreviousQuantity,
		NewQuantity:      res.NewQuantity,
		Operation:        res.Operation,
		QuantityChanged:  res.QuantityChanged,
	})
}

// filterProducts
//
//	@Summary		Фильтрация продуктов
//	@Description	Требуется хотя бы один критерий; выдача постранична
//	@Tags			products
//	@Produce		json
//	@Param			sku				query		string	false	"Подстрока SKU"
//	@Param			name			query		string	false	"Подстрока названия"
//	@Param			location		query		string	false	"Подстрока ячейки"
//	@Param			expiration_date	query		string	false	"Дата (YYYY-MM-DD)"
//	@Param			quantity		query		integer	false	"Точное количество"
//	@Param			price			query		number	false	"Точная цена"
//	@Param			page			query		integer	false	"Номер страницы"
//	@Param			per_page		query		integer	false	"Размер страницы (1-100)"
//	@Success		200	{object}	SuccessResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products/filter [get]
func (p *ProductHandler) filterProducts(w http.ResponseWriter, r *http.Request) {
	req, err := p.parseFilterRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.FilterProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("filter products failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "", toFilterResponse(res))
}

// productsByProvider
//
//	@Summary	Продукты, сгруппированные по поставщику
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/products/by-provider [get]
func (p *ProductHandler) productsByProvider(w http.ResponseWriter, r *http.Request) {
	res, err := p.productUsecase.ProductsByProvider(r.Context())
	if err != nil {
		p.logger.Warnf("products by provider failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, res.Message, map[string]interface{}{
		"providers": toProviderGroupsResponse(res),
	})
}

// deleteProduct
//
//	@Summary	Удаление продукта
//	@Tags		products
//	@Produce	json
//	@Param		id	path		integer	true	"ID продукта"
//	@Success	200	{object}	SuccessResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("delete product %d failed: %s", id, err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Producto eliminado exitosamente", map[string]int64{"id": id})
}

// deleteAllProducts
//
//	@Summary	Удаление всех продуктов
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	SuccessResponse
//	@Router		/products [delete]
func (p *ProductHandler) deleteAllProducts(w http.ResponseWriter, r *http.Request) {
	count, err := p.productUsecase.DeleteAllProducts(r.Context())
	if err != nil {
		p.logger.Warnf("delete all products failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "Productos eliminados exitosamente", map[string]int64{"deleted_count": count})
}

// parseCreateRequest собирает запрос создания из JSON-тела или multipart-формы.
func (p *ProductHandler) parseCreateRequest(r *http.Request, maxMemory int64) (*usecase.CreateProductReq, error) {
	payload, photo, err := p.parseProductPayload(r, maxMemory)
	if err != nil {
		return nil, err
	}

	price, expiration, err := p.parsePriceAndDate(payload)
	if err != nil {
		return nil, err
	}

	return &usecase.CreateProductReq{
		SKU:            payload.SKU,
		Name:           payload.Name,
		ExpirationDate: expiration,
		Quantity:       payload.Quantity,
		Price:          price,
		Location:       payload.Location,
		Description:    payload.Description,
		ProductType:    payload.ProductType,
		ProviderID:     payload.ProviderID,
		Photo:          photo,
	}, nil
}

func (p *ProductHandler) parseProductPayload(r *http.Request, maxMemory int64) (*productPayload, *usecase.ProductPhoto, error) {
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, nil, e.ErrExpectedMultipart
		}

		payload := &productPayload{
			SKU:            r.FormValue("sku"),
			Name:           r.FormValue("name"),
			ExpirationDate: r.FormValue("expiration_date"),
			Price:          json.Number(r.FormValue("price")),
			Location:       r.FormValue("location"),
			Description:    r.FormValue("description"),
			ProductType:    r.FormValue("product_type"),
			ProviderID:     r.FormValue("provider_id"),
		}

		if raw := r.FormValue("quantity"); raw != "" {
			quantity, err := strconv.Atoi(raw)
			if err != nil {
				return nil, nil, e.Wrap("quantity", e.ErrStatusBadRequest)
			}
			payload.Quantity = quantity
		}

		photo, err := parsePhoto(r, p.maxPhotoSize)
		if err != nil {
			return nil, nil, err
		}

		return payload, photo, nil
	}

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, nil, e.ErrExpectedJSON
	}

	return &payload, nil, nil
}

func (p *ProductHandler) parsePriceAndDate(payload *productPayload) (decimal.Decimal, time.Time, error) {
	price, err := parsePrice(payload.Price.String())
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}

	if payload.ExpirationDate == "" {
		// Домен сообщит об отсутствии даты вместе с остальными полями.
		return price, time.Time{}, nil
	}

	expiration, err := parseDate(payload.ExpirationDate)
	if err != nil {
		return decimal.Zero, time.Time{}, e.NewValidationError(
			e.NewFieldError("expiration_date", "expiration date must be in YYYY-MM-DD format"),
		)
	}

	return price, expiration, nil
}

func (p *ProductHandler) parseFilterRequest(r *http.Request) (*usecase.FilterReq, error) {
	filter := usecase.Filter{
		SKU:      queryString(r, "sku"),
		Name:     queryString(r, "name"),
		Location: queryString(r, "location"),
	}

	if raw := queryString(r, "expiration_date"); raw != nil {
		date, err := parseDate(*raw)
		if err != nil {
			return nil, e.NewValidationError(
				e.NewFieldError("expiration_date", "expiration date must be in YYYY-MM-DD format"),
			)
		}
		filter.ExpirationDate = &date
	}

	quantity, err := queryInt(r, "quantity")
	if err != nil {
		return nil, err
	}
	filter.Quantity = quantity

	if raw := queryString(r, "price"); raw != nil {
		price, err := parsePrice(*raw)
		if err != nil {
			return nil, err
		}
		filter.Price = &price
	}

	page, err := queryInt(r, "page")
	if err != nil {
		return nil, err
	}

	perPage, err := queryInt(r, "per_page")
	if err != nil {
		return nil, err
	}

	return &usecase.FilterReq{Filter: filter, Page: page, PerPage: perPage}, nil
}
