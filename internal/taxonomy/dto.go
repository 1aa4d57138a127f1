package taxonomy

import (
	"time"

	"github.com/google/uuid"

	"github.com/giggleglory/backoffice/pkg/db/models"
)

// BrandDTO is the admin payload for a brand.
type BrandDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Discount  float64   `json:"discount"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AgeGroupDTO struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func BrandToDTO(b models.Brand) BrandDTO {
	return BrandDTO{
		ID:        b.ID,
		Name:      b.Name,
		Discount:  b.Discount.InexactFloat64(),
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func CategoryToDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func AgeGroupToDTO(a models.AgeGroup) AgeGroupDTO {
	return AgeGroupDTO{
		ID:        a.ID,
		Label:     a.Label,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
