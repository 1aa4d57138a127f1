package taxonomy

import (
	"fmt"

	"github.com/giggleglory/backoffice/pkg/db/models"
)

// RefKind names a taxonomy table a product can point at.
type RefKind string

const (
	KindBrand    RefKind = "brand"
	KindCategory RefKind = "category"
	KindAgeGroup RefKind = "ageGroup"
)

type kindSpec struct {
	table  string
	column string
	label  string
	newRow func(key string) any
}

var kindSpecs = map[RefKind]kindSpec{
	KindBrand: {
		table:  "brands",
		column: "name",
		label:  "Brand",
		newRow: func(key string) any { return &models.Brand{Name: key, IsActive: true} },
	},
	KindCategory: {
		table:  "categories",
		column: "name",
		label:  "Category",
		newRow: func(key string) any { return &models.Category{Name: key, IsActive: true} },
	},
	KindAgeGroup: {
		table:  "age_groups",
		column: "label",
		label:  "Age group",
		newRow: func(key string) any { return &models.AgeGroup{Label: key, IsActive: true} },
	},
}

func specFor(kind RefKind) (kindSpec, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return kindSpec{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	return spec, nil
}

// Label is the human name used in messages, e.g. "Brand".
func (k RefKind) Label() string {
	if spec, ok := kindSpecs[k]; ok {
		return spec.label
	}
	return string(k)
}
