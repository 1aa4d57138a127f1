package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giggleglory/backoffice/api/controllers"
	"github.com/giggleglory/backoffice/api/middleware"
	product "github.com/giggleglory/backoffice/internal/products"
	"github.com/giggleglory/backoffice/internal/taxonomy"
	"github.com/giggleglory/backoffice/pkg/config"
	"github.com/giggleglory/backoffice/pkg/logger"
	"github.com/giggleglory/backoffice/pkg/redis"
)

// NewRouter wires the admin API. redisClient and metricsHandler are optional;
// without Redis idempotency replay is off and readiness skips it.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	taxonomyService taxonomy.Service,
	productService product.Service,
	importService controllers.ImportService,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	var idempotencyStore redis.IdempotencyStore
	readyDeps := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		idempotencyStore = redisClient
		readyDeps["redis"] = redisClient
	}

	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readyDeps, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg, cfg.Import.MaxUploadBytes()))

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.ListBrands(taxonomyService, logg))
			r.Post("/", controllers.CreateBrand(taxonomyService, logg))
			r.Get("/{id}", controllers.GetBrand(taxonomyService, logg))
			r.Put("/{id}", controllers.UpdateBrand(taxonomyService, logg))
			r.Delete("/{id}", controllers.DeactivateTaxonomy(taxonomyService, taxonomy.KindBrand, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(taxonomyService, logg))
			r.Post("/", controllers.CreateCategory(taxonomyService, logg))
			r.Get("/{id}", controllers.GetCategory(taxonomyService, logg))
			r.Put("/{id}", controllers.UpdateCategory(taxonomyService, logg))
			r.Delete("/{id}", controllers.DeactivateTaxonomy(taxonomyService, taxonomy.KindCategory, logg))
		})

		r.Route("/ageGroups", func(r chi.Router) {
			r.Get("/", controllers.ListAgeGroups(taxonomyService, logg))
			r.Post("/", controllers.CreateAgeGroup(taxonomyService, logg))
			r.Get("/{id}", controllers.GetAgeGroup(taxonomyService, logg))
			r.Put("/{id}", controllers.UpdateAgeGroup(taxonomyService, logg))
			r.Delete("/{id}", controllers.DeactivateTaxonomy(taxonomyService, taxonomy.KindAgeGroup, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/{id}", controllers.GetProduct(productService, logg))
			r.Put("/{id}", controllers.UpdateProduct(productService, logg))
			r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
		})

		r.Get("/storefront/recommended", controllers.RecommendedProducts(productService, logg))

		r.Route("/upload/{entity}", func(r chi.Router) {
			r.Post("/", controllers.UploadEntity(importService, cfg.Import.MaxUploadBytes(), logg))
			r.Get("/template", controllers.UploadTemplate(importService, logg))
		})
	})

	return r
}
