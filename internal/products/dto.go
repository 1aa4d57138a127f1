package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/giggleglory/backoffice/pkg/db/models"
)

// ProductDTO is the admin payload: references flattened to display names and
// images to an ordered URL list.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	IsActive    bool      `json:"isActive"`
	MetaTitle   string    `json:"metaTitle"`
	MetaDesc    string    `json:"metaDesc"`
	BrandID     uuid.UUID `json:"brandId"`
	CategoryID  uuid.UUID `json:"categoryId"`
	AgeGroupID  uuid.UUID `json:"ageGroupId"`
	Brand       *string   `json:"brand"`
	Category    *string   `json:"category"`
	AgeGroup    *string   `json:"ageGroup"`
	ImageURLs   []string  `json:"imageUrls"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RecommendedDTO is the storefront card for one product.
type RecommendedDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	SKU            string    `json:"sku"`
	Price          float64   `json:"price"`
	Discount       float64   `json:"discount"`
	EffectivePrice float64   `json:"effectivePrice"`
	Brand          *string   `json:"brand"`
	Category       *string   `json:"category"`
	Image          string    `json:"image"`
}

func ToDTO(p models.Product) ProductDTO {
	keywords := []string(p.Keywords)
	if keywords == nil {
		keywords = []string{}
	}
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}

	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Price:       p.Price.InexactFloat64(),
		Discount:    p.Discount.InexactFloat64(),
		Description: p.Description,
		Keywords:    keywords,
		IsActive:    p.IsActive,
		MetaTitle:   p.MetaTitle,
		MetaDesc:    p.MetaDesc,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		AgeGroupID:  p.AgeGroupID,
		ImageURLs:   urls,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Brand != nil {
		dto.Brand = &p.Brand.Name
	}
	if p.Category != nil {
		dto.Category = &p.Category.Name
	}
	if p.AgeGroup != nil {
		dto.AgeGroup = &p.AgeGroup.Label
	}
	return dto
}

func ToRecommendedDTO(p models.Product) RecommendedDTO {
	dto := RecommendedDTO{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		Price:          p.Price.InexactFloat64(),
		Discount:       p.Discount.InexactFloat64(),
		EffectivePrice: p.EffectivePrice().InexactFloat64(),
		Image:          p.PrimaryImageURL(),
	}
	if p.Brand != nil {
		dto.Brand = &p.Brand.Name
	}
	if p.Category != nil {
		dto.Category = &p.Category.Name
	}
	return dto
}
