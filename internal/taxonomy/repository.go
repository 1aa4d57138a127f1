package taxonomy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giggleglory/backoffice/pkg/db/models"
)

// Repository persists brands, categories and age groups.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListAgeGroups(ctx context.Context) ([]models.AgeGroup, error) {
	var rows []models.AgeGroup
	err := r.db.WithContext(ctx).Order("label ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var row models.Brand
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindAgeGroup(ctx context.Context, id uuid.UUID) (*models.AgeGroup, error) {
	var row models.AgeGroup
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a brand, category or age group model.
func (r *Repository) Create(ctx context.Context, row any) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update applies column updates to the row of kind with id. It returns
// gorm.ErrRecordNotFound when no row matched.
func (r *Repository) Update(ctx context.Context, kind RefKind, id uuid.UUID, updates map[string]any) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Table(spec.table).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists returns gorm.ErrRecordNotFound when kind has no row with id.
func (r *Repository) Exists(ctx context.Context, kind RefKind, id uuid.UUID) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	var count int64
	if err := r.db.WithContext(ctx).Table(spec.table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertBrand inserts the brand or, when the name exists, overwrites its
// discount and reactivates it.
func (r *Repository) UpsertBrand(ctx context.Context, name string, discount decimal.Decimal) error {
	row := &models.Brand{Name: name, Discount: discount, IsActive: true}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"discount", "is_active", "updated_at"}),
		}).
		Create(row).Error
}

func (r *Repository) UpsertCategory(ctx context.Context, name string) error {
	row := &models.Category{Name: name, IsActive: true}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_active", "updated_at"}),
		}).
		Create(row).Error
}

func (r *Repository) UpsertAgeGroup(ctx context.Context, label string) error {
	row := &models.AgeGroup{Label: label, IsActive: true}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "label"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_active", "updated_at"}),
		}).
		Create(row).Error
}

// FindIDByKey returns the id of the row whose natural key equals key.
func (r *Repository) FindIDByKey(ctx context.Context, kind RefKind, key string) (uuid.UUID, error) {
	spec, err := specFor(kind)
	if err != nil {
		return uuid.Nil, err
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table(spec.table).
		Where(spec.column+" = ?", key).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return ids[0], nil
}

// InsertKeyIfAbsent creates a row holding only the natural key. An existing
// row is left untouched.
func (r *Repository) InsertKeyIfAbsent(ctx context.Context, kind RefKind, key string) error {
	spec, err := specFor(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: spec.column}},
			DoNothing: true,
		}).
		Create(spec.newRow(key)).Error
}
