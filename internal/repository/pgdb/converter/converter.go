package converter

import (
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

// ImportHistoryConverter преобразует записи истории импорта между domain и моделью PostgreSQL.
type ImportHistoryConverter interface {
	ToModel(entity *domain.ImportHistory) *ImportHistoryModel
	ToEntity(model *ImportHistoryModel) *domain.ImportHistory
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type ProductConverterImpl struct{}

func NewProductConverter() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:             entity.ID,
		SKU:            entity.SKU,
		Name:           entity.Name,
		ExpirationDate: entity.ExpirationDate,
		Quantity:       entity.Quantity,
		Price:          entity.Price.StringFixed(2),
		Location:       entity.Location,
		Description:    entity.Description,
		ProductType:    entity.ProductType,
		ProviderID:     entity.ProviderID,
		PhotoFilename:  entity.PhotoFilename,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	// NUMERIC приходит корректным десятичным текстом, ошибка разбора невозможна.
	price, _ := decimal.NewFromString(model.Price)

	return &domain.Product{
		ID:             model.ID,
		SKU:            model.SKU,
		Name:           model.Name,
		ExpirationDate: model.ExpirationDate,
		Quantity:       model.Quantity,
		Price:          price,
		Location:       model.Location,
		Description:    model.Description,
		ProductType:    model.ProductType,
		ProviderID:     model.ProviderID,
		PhotoFilename:  model.PhotoFilename,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

type ImportHistoryConverterImpl struct{}

func NewImportHistoryConverter() *ImportHistoryConverterImpl {
	return &ImportHistoryConverterImpl{}
}

func (c *ImportHistoryConverterImpl) ToModel(entity *domain.ImportHistory) *ImportHistoryModel {
	return &ImportHistoryModel{
		ID:        entity.ID,
		FileName:  entity.FileName,
		ObjectKey: entity.ObjectKey,
		UserID:    entity.UserID,
		Status:    entity.Status,
		Result:    entity.Result,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (c *ImportHistoryConverterImpl) ToEntity(model *ImportHistoryModel) *domain.ImportHistory {
	return &domain.ImportHistory{
		ID:        model.ID,
		FileName:  model.FileName,
		ObjectKey: model.ObjectKey,
		UserID:    model.UserID,
		Status:    model.Status,
		Result:    model.Result,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverter() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	entities := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		entities = append(entities, c.ToEntity(model))
	}

	return entities
}
