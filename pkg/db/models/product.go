package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the catalog listing, keyed by SKU for imports.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	SKU         string          `gorm:"column:sku;not null;uniqueIndex"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Discount    decimal.Decimal `gorm:"column:discount;type:numeric(5,2);not null"`
	Description string          `gorm:"column:description;not null"`
	Keywords    pq.StringArray  `gorm:"column:keywords;type:text[];not null"`
	IsActive    bool            `gorm:"column:is_active;not null"`
	MetaTitle   string          `gorm:"column:meta_title;not null"`
	MetaDesc    string          `gorm:"column:meta_desc;not null"`
	BrandID     uuid.UUID       `gorm:"column:brand_id;type:uuid;not null"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	AgeGroupID  uuid.UUID       `gorm:"column:age_group_id;type:uuid;not null"`
	Brand       *Brand          `gorm:"foreignKey:BrandID"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	AgeGroup    *AgeGroup       `gorm:"foreignKey:AgeGroupID"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	if p.Keywords == nil {
		p.Keywords = pq.StringArray{}
	}
	return nil
}

// EffectivePrice applies the product discount percentage to the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.Discount.IsZero() {
		return p.Price
	}
	factor := decimal.NewFromInt(100).Sub(p.Discount).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

// PrimaryImageURL returns the primary image, falling back to the first by position.
func (p Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// ProductImage rows are rewritten wholesale; position 0 is primary.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	URL       string    `gorm:"column:url;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null"`
	Position  int       `gorm:"column:position;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *ProductImage) BeforeCreate(*gorm.DB) error {
	i.ID = ensureID(i.ID)
	return nil
}

// NewImageSet builds the ordered image rows for urls; the first one is primary.
func NewImageSet(productID uuid.UUID, urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, ProductImage{
			ProductID: productID,
			URL:       url,
			IsPrimary: i == 0,
			Position:  i,
		})
	}
	return images
}
