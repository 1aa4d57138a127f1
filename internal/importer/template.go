package importer

import (
	"fmt"

	"github.com/giggleglory/backoffice/pkg/spreadsheet"
)

type templateSpec struct {
	columns []spreadsheet.Column
	sample  []any
}

var templates = map[EntityKind]templateSpec{
	KindBrands: {
		columns: []spreadsheet.Column{{Name: "name", Required: true}, {Name: "discount"}},
		sample:  []any{"Lego", 10},
	},
	KindCategories: {
		columns: []spreadsheet.Column{{Name: "name", Required: true}},
		sample:  []any{"Building Blocks"},
	},
	KindAgeGroups: {
		columns: []spreadsheet.Column{{Name: "label", Required: true}},
		sample:  []any{"4-6 years"},
	},
	KindProducts: {
		columns: []spreadsheet.Column{
			{Name: "name", Required: true},
			{Name: "sku", Required: true},
			{Name: "price", Required: true},
			{Name: "discount"},
			{Name: "description"},
			{Name: "keywords"},
			{Name: "metaTitle"},
			{Name: "metaDesc"},
			{Name: "brand", Required: true},
			{Name: "category", Required: true},
			{Name: "ageGroup", Required: true},
		},
		sample: []any{
			"Classic Creative Box", "LEGO-10696", 2499, 10,
			"484 bricks in 35 colours", "bricks, creative, building",
			"Classic Creative Box", "Open-ended building set",
			"Lego", "Building Blocks", "4-6 years",
		},
	},
}

// Template renders an xlsx workbook with the columns an upload of entity
// accepts and one sample row.
func (s *Service) Template(entity string) ([]byte, error) {
	kind, err := ParseEntityKind(entity)
	if err != nil {
		return nil, err
	}
	spec, ok := templates[kind]
	if !ok {
		return nil, fmt.Errorf("no template for %s", kind)
	}
	return spreadsheet.Write(string(kind), spec.columns, [][]any{spec.sample})
}

// TemplateFilename is the download name for entity's template.
func TemplateFilename(kind EntityKind) string {
	return fmt.Sprintf("%s-template.xlsx", kind)
}
