package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/giggleglory/backoffice/pkg/db"
	"github.com/giggleglory/backoffice/pkg/db/models"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

// Service exposes admin CRUD over brands, categories and age groups.
type Service interface {
	ListBrands(ctx context.Context) ([]BrandDTO, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*BrandDTO, error)
	CreateBrand(ctx context.Context, input CreateBrandInput) (*BrandDTO, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, input UpdateBrandInput) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) error

	ListAgeGroups(ctx context.Context) ([]AgeGroupDTO, error)
	GetAgeGroup(ctx context.Context, id uuid.UUID) (*AgeGroupDTO, error)
	CreateAgeGroup(ctx context.Context, input CreateAgeGroupInput) (*AgeGroupDTO, error)
	UpdateAgeGroup(ctx context.Context, id uuid.UUID, input UpdateAgeGroupInput) error

	// Deactivate flips isActive to false. Rows are never removed.
	Deactivate(ctx context.Context, kind RefKind, id uuid.UUID) error
}

type CreateBrandInput struct {
	Name     string
	Discount decimal.Decimal
}

type UpdateBrandInput struct {
	Name     *string
	Discount *decimal.Decimal
	IsActive *bool
}

type CreateCategoryInput struct {
	Name string
}

type UpdateCategoryInput struct {
	Name     *string
	IsActive *bool
}

type CreateAgeGroupInput struct {
	Label string
}

type UpdateAgeGroupInput struct {
	Label    *string
	IsActive *bool
}

var hundred = decimal.NewFromInt(100)

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("taxonomy repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListBrands(ctx context.Context) ([]BrandDTO, error) {
	rows, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}
	out := make([]BrandDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, BrandToDTO(row))
	}
	return out, nil
}

func (s *service) GetBrand(ctx context.Context, id uuid.UUID) (*BrandDTO, error) {
	row, err := s.repo.FindBrand(ctx, id)
	if err != nil {
		return nil, mapFindErr(KindBrand, err)
	}
	dto := BrandToDTO(*row)
	return &dto, nil
}

func (s *service) CreateBrand(ctx context.Context, input CreateBrandInput) (*BrandDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateDiscount(input.Discount); err != nil {
		return nil, err
	}
	row := &models.Brand{Name: name, Discount: input.Discount, IsActive: true}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, mapWriteErr(KindBrand, err)
	}
	dto := BrandToDTO(*row)
	return &dto, nil
}

func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, input UpdateBrandInput) error {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Discount != nil {
		if err := validateDiscount(*input.Discount); err != nil {
			return err
		}
		updates["discount"] = *input.Discount
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	return s.update(ctx, KindBrand, id, updates)
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoryToDTO(row))
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, mapFindErr(KindCategory, err)
	}
	dto := CategoryToDTO(*row)
	return &dto, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	row := &models.Category{Name: name, IsActive: true}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, mapWriteErr(KindCategory, err)
	}
	dto := CategoryToDTO(*row)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) error {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	return s.update(ctx, KindCategory, id, updates)
}

func (s *service) ListAgeGroups(ctx context.Context) ([]AgeGroupDTO, error) {
	rows, err := s.repo.ListAgeGroups(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list age groups")
	}
	out := make([]AgeGroupDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, AgeGroupToDTO(row))
	}
	return out, nil
}

func (s *service) GetAgeGroup(ctx context.Context, id uuid.UUID) (*AgeGroupDTO, error) {
	row, err := s.repo.FindAgeGroup(ctx, id)
	if err != nil {
		return nil, mapFindErr(KindAgeGroup, err)
	}
	dto := AgeGroupToDTO(*row)
	return &dto, nil
}

func (s *service) CreateAgeGroup(ctx context.Context, input CreateAgeGroupInput) (*AgeGroupDTO, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	row := &models.AgeGroup{Label: label, IsActive: true}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, mapWriteErr(KindAgeGroup, err)
	}
	dto := AgeGroupToDTO(*row)
	return &dto, nil
}

func (s *service) UpdateAgeGroup(ctx context.Context, id uuid.UUID, input UpdateAgeGroupInput) error {
	updates := map[string]any{}
	if input.Label != nil {
		label := strings.TrimSpace(*input.Label)
		if label == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "label cannot be empty")
		}
		updates["label"] = label
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	return s.update(ctx, KindAgeGroup, id, updates)
}

func (s *service) Deactivate(ctx context.Context, kind RefKind, id uuid.UUID) error {
	return s.update(ctx, kind, id, map[string]any{"is_active": false})
}

func (s *service) update(ctx context.Context, kind RefKind, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		// Still report unknown ids.
		if err := s.repo.Exists(ctx, kind, id); err != nil {
			return mapFindErr(kind, err)
		}
		return nil
	}
	if err := s.repo.Update(ctx, kind, id, updates); err != nil {
		if db.IsNotFound(err) {
			return notFound(kind)
		}
		return mapWriteErr(kind, err)
	}
	return nil
}

func validateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	return nil
}

func notFound(kind RefKind) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s not found", kind.Label()))
}

func mapFindErr(kind RefKind, err error) error {
	if db.IsNotFound(err) {
		return notFound(kind)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: find %s", kind))
}

func mapWriteErr(kind RefKind, err error) error {
	if db.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("%s already exists", kind.Label()))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: write %s", kind))
}
