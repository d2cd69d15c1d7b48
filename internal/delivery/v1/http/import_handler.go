package http

import (
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type ImportHandler struct {
	importUsecase usecase.ImportUC
	logger        logger.Logger
}

func NewImportHandler(importUsecase usecase.ImportUC, logger logger.Logger) *ImportHandler {
	return &ImportHandler{importUsecase: importUsecase, logger: logger}
}

// importProducts
//
//	@Summary		Пакетный импорт продуктов из CSV
//	@Description	Принимает CSV-файл и ставит его в асинхронную обработку
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"CSV-файл с продуктами"
//	@Param			user_id	formData	string	false	"Идентификатор инициатора"
//	@Success		202	{object}	SuccessResponse
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации файла"
//	@Router			/products/import [post]
func (h *ImportHandler) importProducts(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 16 << 20
		maxImportFileSize   = 16 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("import products: %s", err.Error())
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImportFile)
		return
	}

	data, err := readFile(files[0], maxImportFileSize)
	if err != nil {
		h.logger.Warnf("import products: %s", err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.importUsecase.ImportProducts(r.Context(), &usecase.ImportReq{
		FileName: files[0].Filename,
		Data:     data,
		UserID:   r.FormValue("user_id"),
	})
	if err != nil {
		h.logger.Warnf("import products failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, "Archivo recibido, procesamiento en curso", ImportResponse{
		HistoryID: res.HistoryID,
		FileName:  res.FileName,
		Status:    res.Status,
		Products:  res.Products,
	})
}

// getHistory
//
//	@Summary	История обработки импортов
//	@Tags		import
//	@Produce	json
//	@Param		page		query		integer	false	"Номер страницы"
//	@Param		per_page	query		integer	false	"Размер страницы (1-100)"
//	@Param		user_id		query		string	false	"Фильтр по инициатору"
//	@Success	200	{object}	SuccessResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/products/history [get]
func (h *ImportHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		WriteError(w, err)
		return
	}

	perPage, err := queryInt(r, "per_page")
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.importUsecase.GetHistory(r.Context(), &usecase.HistoryReq{
		Page:    page,
		PerPage: perPage,
		UserID:  r.URL.Query().Get("user_id"),
	})
	if err != nil {
		h.logger.Warnf("get import history failed: %s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, "", toHistoryResponse(res))
}
