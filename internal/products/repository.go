package product

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giggleglory/backoffice/pkg/db/models"
)

// skuUpsertColumns are overwritten when an import row hits an existing SKU;
// is_active keeps its stored value.
var skuUpsertColumns = []string{
	"name", "price", "discount", "description", "keywords",
	"meta_title", "meta_desc", "brand_id", "category_id", "age_group_id", "updated_at",
}

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func withDisplay(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Brand").
		Preload("Category").
		Preload("AgeGroup").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// FindByID loads the product with references and images.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := withDisplay(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads the product without associations.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns every product, active or not, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := withDisplay(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Order("sku ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListActive returns active products, optionally limited to a category name.
func (r *Repository) ListActive(ctx context.Context, category string, limit int) ([]models.Product, error) {
	q := withDisplay(r.db.WithContext(ctx)).
		Model(&models.Product{}).
		Where("products.is_active = ?", true)
	if category != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.name = ?", category)
	}
	var rows []models.Product
	err := q.Order("products.created_at DESC").
		Order("products.sku ASC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// CreateProduct inserts a new product row without touching associations.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// UpdateProduct applies column updates. It returns gorm.ErrRecordNotFound
// when no row matched.
func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertBySKU inserts the product or overwrites the scalar fields and
// references of the row already holding its SKU.
func (r *Repository) UpsertBySKU(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns(skuUpsertColumns),
		}).
		Create(product).Error
}

// ReplaceImages discards the product's images and writes urls in order.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, urls []string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	images := models.NewImageSet(productID, urls)
	return tx.Create(&images).Error
}
