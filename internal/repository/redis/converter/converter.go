package converter

import (
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// ProductInfoConverter преобразует сущности ProductInfo между usecase и кэш-моделью.
type ProductInfoConverter interface {
	ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel
	ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo
	ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel
	ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo
}

type ProductInfoConverterImpl struct{}

func NewProductInfoConverter() *ProductInfoConverterImpl {
	return &ProductInfoConverterImpl{}
}

func (c *ProductInfoConverterImpl) ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
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

func (c *ProductInfoConverterImpl) ToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo {
	price, _ := decimal.NewFromString(model.Price)

	return &usecase.ProductInfo{
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

func (c *ProductInfoConverterImpl) ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel {
	models := make([]ProductInfoRedisModel, 0, len(entities))
	for i := range entities {
		models = append(models, *c.ToRedisModel(&entities[i]))
	}

	return models
}

func (c *ProductInfoConverterImpl) ToArrUseCase(models []ProductInfoRedisModel) []usecase.ProductInfo {
	entities := make([]usecase.ProductInfo, 0, len(models))
	for i := range models {
		entities = append(entities, *c.ToUseCase(&models[i]))
	}

	return entities
}
