package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giggleglory/backoffice/internal/importer"
	product "github.com/giggleglory/backoffice/internal/products"
	"github.com/giggleglory/backoffice/internal/taxonomy"
	"github.com/giggleglory/backoffice/pkg/config"
	"github.com/giggleglory/backoffice/pkg/logger"
	"github.com/giggleglory/backoffice/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubTaxonomyService struct {
	taxonomy.Service
	deactivated taxonomy.RefKind
}

func (stubTaxonomyService) ListBrands(context.Context) ([]taxonomy.BrandDTO, error) {
	return []taxonomy.BrandDTO{{ID: uuid.New(), Name: "Lego", Discount: 15, IsActive: true}}, nil
}

func (stubTaxonomyService) ListAgeGroups(context.Context) ([]taxonomy.AgeGroupDTO, error) {
	return []taxonomy.AgeGroupDTO{}, nil
}

func (s *stubTaxonomyService) Deactivate(_ context.Context, kind taxonomy.RefKind, _ uuid.UUID) error {
	s.deactivated = kind
	return nil
}

type stubProductService struct {
	product.Service
}

func (stubProductService) Recommended(context.Context, int, string) ([]product.RecommendedDTO, error) {
	return []product.RecommendedDTO{}, nil
}

type stubImportService struct{}

func (stubImportService) Import(context.Context, string, []byte) (*importer.Result, error) {
	return &importer.Result{}, nil
}

func (stubImportService) Template(entity string) ([]byte, error) {
	return []byte(entity), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "dev"},
		HTTP:   config.HTTPConfig{CORSOrigins: []string{"http://localhost:3000"}},
		Import: config.ImportConfig{Workers: 2, MaxConcurrent: 1, MaxUploadMB: 1},
	}
}

func newTestRouter(t *testing.T, tax *stubTaxonomyService) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics.NewImportMetrics(reg).ObserveImport("brands", "success", 0)
	logg := logger.New(logger.Options{ServiceName: "test", Level: "debug", Output: io.Discard})
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		nil,
		tax,
		stubProductService{},
		stubImportService{},
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
}

func TestRouterServesCatalogRoutes(t *testing.T) {
	tax := &stubTaxonomyService{}
	router := newTestRouter(t, tax)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"live", http.MethodGet, "/health/live", http.StatusOK},
		{"ready without redis", http.MethodGet, "/health/ready", http.StatusOK},
		{"brands", http.MethodGet, "/api/brands", http.StatusOK},
		{"age groups", http.MethodGet, "/api/ageGroups", http.StatusOK},
		{"recommended", http.MethodGet, "/api/storefront/recommended?limit=4", http.StatusOK},
		{"template", http.MethodGet, "/api/upload/brands/template", http.StatusOK},
		{"unknown template", http.MethodGet, "/api/upload/users/template", http.StatusBadRequest},
		{"upload needs multipart", http.MethodPost, "/api/upload/brands", http.StatusUnsupportedMediaType},
		{"unknown route", http.MethodGet, "/api/v1/orders", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouterDeleteRoutesByKind(t *testing.T) {
	tax := &stubTaxonomyService{}
	router := newTestRouter(t, tax)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/ageGroups/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, taxonomy.KindAgeGroup, tax.deactivated)
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t, &stubTaxonomyService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouterExposesMetrics(t *testing.T) {
	router := newTestRouter(t, &stubTaxonomyService{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "backoffice_import"), rec.Body.String())
}
