package importer

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/giggleglory/backoffice/internal/taxonomy"
	"github.com/giggleglory/backoffice/pkg/db/models"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
	"github.com/giggleglory/backoffice/pkg/spreadsheet"
)

type taxonomyStore interface {
	UpsertBrand(ctx context.Context, name string, discount decimal.Decimal) error
	UpsertCategory(ctx context.Context, name string) error
	UpsertAgeGroup(ctx context.Context, label string) error
}

type productStore interface {
	UpsertBySKU(ctx context.Context, product *models.Product) error
}

type referenceResolver interface {
	Lookup(ctx context.Context, kind taxonomy.RefKind, key string) (taxonomy.Reference, error)
	Resolve(ctx context.Context, kind taxonomy.RefKind, key string) (taxonomy.Reference, error)
}

// upserter writes one row of a single entity kind.
type upserter interface {
	// NaturalKey identifies the row's target record. Rows sharing a key are
	// applied in file order.
	NaturalKey(row spreadsheet.Row) string
	Upsert(ctx context.Context, row spreadsheet.Row) error
}

// Dispatcher routes rows to the upserter for their entity kind.
type Dispatcher struct {
	upserters map[EntityKind]upserter
}

// DispatcherOptions toggles how product rows treat unknown references.
type DispatcherOptions struct {
	// CreateReferences creates missing brands, categories and age groups
	// instead of failing the row.
	CreateReferences bool
}

func NewDispatcher(tax taxonomyStore, products productStore, refs referenceResolver, opts DispatcherOptions) (*Dispatcher, error) {
	if tax == nil {
		return nil, fmt.Errorf("taxonomy store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product store required")
	}
	if refs == nil {
		return nil, fmt.Errorf("reference resolver required")
	}
	lookup := refs.Lookup
	if opts.CreateReferences {
		lookup = refs.Resolve
	}
	return &Dispatcher{
		upserters: map[EntityKind]upserter{
			KindBrands:     brandUpserter{store: tax},
			KindCategories: categoryUpserter{store: tax},
			KindAgeGroups:  ageGroupUpserter{store: tax},
			KindProducts:   productUpserter{store: products, resolve: lookup},
		},
	}, nil
}

func (d *Dispatcher) upserterFor(kind EntityKind) (upserter, error) {
	u, ok := d.upserters[kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedEntity, "Unsupported entity").
			WithDetails(map[string]any{"entity": kind})
	}
	return u, nil
}

// NaturalKey returns the row's key for kind, or "" when it has none.
func (d *Dispatcher) NaturalKey(kind EntityKind, row spreadsheet.Row) string {
	u, err := d.upserterFor(kind)
	if err != nil {
		return ""
	}
	return u.NaturalKey(row)
}

// Dispatch validates and writes a single row.
func (d *Dispatcher) Dispatch(ctx context.Context, kind EntityKind, row spreadsheet.Row) error {
	u, err := d.upserterFor(kind)
	if err != nil {
		return err
	}
	return u.Upsert(ctx, row)
}

type brandUpserter struct {
	store taxonomyStore
}

func (brandUpserter) NaturalKey(row spreadsheet.Row) string { return row.String("name") }

func (u brandUpserter) Upsert(ctx context.Context, row spreadsheet.Row) error {
	in, err := decodeBrandRow(row)
	if err != nil {
		return err
	}
	if err := u.store.UpsertBrand(ctx, in.Name, in.Discount); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert brand")
	}
	return nil
}

type categoryUpserter struct {
	store taxonomyStore
}

func (categoryUpserter) NaturalKey(row spreadsheet.Row) string { return row.String("name") }

func (u categoryUpserter) Upsert(ctx context.Context, row spreadsheet.Row) error {
	in, err := decodeCategoryRow(row)
	if err != nil {
		return err
	}
	if err := u.store.UpsertCategory(ctx, in.Name); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert category")
	}
	return nil
}

type ageGroupUpserter struct {
	store taxonomyStore
}

func (ageGroupUpserter) NaturalKey(row spreadsheet.Row) string { return row.String("label") }

func (u ageGroupUpserter) Upsert(ctx context.Context, row spreadsheet.Row) error {
	in, err := decodeAgeGroupRow(row)
	if err != nil {
		return err
	}
	if err := u.store.UpsertAgeGroup(ctx, in.Label); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert age group")
	}
	return nil
}

type resolveFunc func(ctx context.Context, kind taxonomy.RefKind, key string) (taxonomy.Reference, error)

type productUpserter struct {
	store   productStore
	resolve resolveFunc
}

func (productUpserter) NaturalKey(row spreadsheet.Row) string { return row.String("sku") }

func (u productUpserter) Upsert(ctx context.Context, row spreadsheet.Row) error {
	in, err := decodeProductRow(row)
	if err != nil {
		return err
	}

	brand, err := u.resolve(ctx, taxonomy.KindBrand, in.Brand)
	if err != nil {
		return err
	}
	category, err := u.resolve(ctx, taxonomy.KindCategory, in.Category)
	if err != nil {
		return err
	}
	ageGroup, err := u.resolve(ctx, taxonomy.KindAgeGroup, in.AgeGroup)
	if err != nil {
		return err
	}

	product := &models.Product{
		Name:        in.Name,
		SKU:         in.SKU,
		Price:       in.Price,
		Discount:    in.Discount,
		Description: in.Description,
		Keywords:    pq.StringArray(in.Keywords),
		IsActive:    true,
		MetaTitle:   in.MetaTitle,
		MetaDesc:    in.MetaDesc,
		BrandID:     brand.ID,
		CategoryID:  category.ID,
		AgeGroupID:  ageGroup.ID,
	}
	if err := u.store.UpsertBySKU(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert product")
	}
	return nil
}
