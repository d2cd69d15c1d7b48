package usecase

import "context"

type ProductUC interface {
	CreateProduct(ctx context.Context, req *CreateProductReq) (*ProductInfo, error)
	GetProduct(ctx context.Context, id int64) (*ProductInfo, error)
	ListProducts(ctx context.Context) ([]ProductInfo, error)
	FilterProducts(ctx context.Context, req *FilterReq) (*FilterRes, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) (*ProductInfo, error)
	UpdateStock(ctx context.Context, req *UpdateStockReq) (*UpdateStockRes, error)
	DeleteProduct(ctx context.Context, id int64) error
	DeleteAllProducts(ctx context.Context) (int64, error)
	ProductsByProvider(ctx context.Context) (*ProviderGroupsRes, error)
}

type ImportUC interface {
	ImportProducts(ctx context.Context, req *ImportReq) (*ImportRes, error)
	GetHistory(ctx context.Context, req *HistoryReq) (*HistoryRes, error)
}
