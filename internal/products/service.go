package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/giggleglory/backoffice/internal/taxonomy"
	"github.com/giggleglory/backoffice/pkg/db"
	"github.com/giggleglory/backoffice/pkg/db/models"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

const (
	DefaultRecommendedLimit = 8
	MaxRecommendedLimit     = 50
)

// Service exposes admin product management and the storefront read model.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Recommended(ctx context.Context, limit int, category string) ([]RecommendedDTO, error)
}

// ProductInput is the full admin form. References are display names.
type ProductInput struct {
	Name        string
	SKU         string
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Description string
	Keywords    []string
	MetaTitle   string
	MetaDesc    string
	Brand       string
	Category    string
	AgeGroup    string
	// ImageURLs nil leaves images untouched on update.
	ImageURLs *[]string
}

type referenceResolver interface {
	Resolve(ctx context.Context, kind taxonomy.RefKind, key string) (taxonomy.Reference, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	resolver referenceResolver
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, resolver referenceResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("reference resolver required")
	}
	return &service{repo: repo, dbClient: dbClient, resolver: resolver}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDTO(row))
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindErr(err)
	}
	dto := ToDTO(*row)
	return &dto, nil
}

// CreateProduct resolves the named references, creating any that are missing,
// then inserts the product and its images.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	input = normalizeInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	refs, err := s.resolveRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:       uuid.New(),
		IsActive: true,
	}
	applyInput(product, input, refs)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProduct(ctx, product); err != nil {
			return err
		}
		if input.ImageURLs != nil {
			return repo.ReplaceImages(ctx, product.ID, *input.ImageURLs)
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct overwrites every scalar field, reactivates the product and,
// when ImageURLs is set, replaces the whole image set.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	input = normalizeInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	refs, err := s.resolveRefs(ctx, input)
	if err != nil {
		return nil, err
	}

	var product models.Product
	applyInput(&product, input, refs)
	updates := map[string]any{
		"name":         product.Name,
		"sku":          product.SKU,
		"price":        product.Price,
		"discount":     product.Discount,
		"description":  product.Description,
		"keywords":     product.Keywords,
		"is_active":    true,
		"meta_title":   product.MetaTitle,
		"meta_desc":    product.MetaDesc,
		"brand_id":     product.BrandID,
		"category_id":  product.CategoryID,
		"age_group_id": product.AgeGroupID,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateProduct(ctx, id, updates); err != nil {
			return err
		}
		if input.ImageURLs != nil {
			return repo.ReplaceImages(ctx, id, *input.ImageURLs)
		}
		return nil
	})
	if err != nil {
		if db.IsNotFound(err) {
			return nil, productNotFound()
		}
		return nil, mapWriteErr(err)
	}
	return s.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.UpdateProduct(ctx, id, map[string]any{"is_active": false}); err != nil {
		if db.IsNotFound(err) {
			return productNotFound()
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	return nil
}

// Recommended lists active products for the storefront carousel.
func (s *service) Recommended(ctx context.Context, limit int, category string) ([]RecommendedDTO, error) {
	if limit <= 0 {
		limit = DefaultRecommendedLimit
	}
	if limit > MaxRecommendedLimit {
		limit = MaxRecommendedLimit
	}
	rows, err := s.repo.ListActive(ctx, strings.TrimSpace(category), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list recommended products")
	}
	out := make([]RecommendedDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToRecommendedDTO(row))
	}
	return out, nil
}

type resolvedRefs struct {
	brand, category, ageGroup uuid.UUID
}

func (s *service) resolveRefs(ctx context.Context, input ProductInput) (resolvedRefs, error) {
	brand, err := s.resolver.Resolve(ctx, taxonomy.KindBrand, input.Brand)
	if err != nil {
		return resolvedRefs{}, err
	}
	category, err := s.resolver.Resolve(ctx, taxonomy.KindCategory, input.Category)
	if err != nil {
		return resolvedRefs{}, err
	}
	ageGroup, err := s.resolver.Resolve(ctx, taxonomy.KindAgeGroup, input.AgeGroup)
	if err != nil {
		return resolvedRefs{}, err
	}
	return resolvedRefs{brand: brand.ID, category: category.ID, ageGroup: ageGroup.ID}, nil
}

func normalizeInput(input ProductInput) ProductInput {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	input.Description = strings.TrimSpace(input.Description)
	input.MetaTitle = strings.TrimSpace(input.MetaTitle)
	input.MetaDesc = strings.TrimSpace(input.MetaDesc)
	input.Keywords = ParseKeywords(input.Keywords)
	if input.ImageURLs != nil {
		urls := make([]string, 0, len(*input.ImageURLs))
		for _, u := range *input.ImageURLs {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		input.ImageURLs = &urls
	}
	return input
}

func validateInput(input ProductInput) error {
	switch {
	case input.Name == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case input.SKU == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	case input.Price.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	case input.Discount.IsNegative() || input.Discount.GreaterThan(decimal.NewFromInt(100)):
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	return nil
}

func applyInput(product *models.Product, input ProductInput, refs resolvedRefs) {
	product.Name = input.Name
	product.SKU = input.SKU
	product.Price = input.Price
	product.Discount = input.Discount
	product.Description = input.Description
	product.Keywords = pq.StringArray(input.Keywords)
	product.MetaTitle = input.MetaTitle
	product.MetaDesc = input.MetaDesc
	product.BrandID = refs.brand
	product.CategoryID = refs.category
	product.AgeGroupID = refs.ageGroup
}

func productNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
}

func mapFindErr(err error) error {
	if db.IsNotFound(err) {
		return productNotFound()
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
}

func mapWriteErr(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: write product")
}
