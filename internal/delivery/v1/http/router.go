package http

import (
	_ "github.com/DRSN-tech/inventory-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, impUC usecase.ImportUC, maxPhotoSize int64) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(prUC, r.logger, maxPhotoSize)
		impHandler := NewImportHandler(impUC, r.logger)
		registerProductRoutes(v1, prHandler, impHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, impHandler *ImportHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/", prHandler.createProduct)
		pr.Get("/", prHandler.listProducts)
		pr.Delete("/", prHandler.deleteAllProducts)

		pr.Get("/filter", prHandler.filterProducts)
		pr.Get("/by-provider", prHandler.productsByProvider)

		pr.Post("/import", impHandler.importProducts)
		pr.Get("/history", impHandler.getHistory)

		pr.Route("/{id}", func(one chi.Router) {
			one.Get("/", prHandler.getProduct)
			one.Put("/", prHandler.updateProduct)
			one.Delete("/", prHandler.deleteProduct)
			one.Put("/stock", prHandler.updateStock)
		})
	})
}
