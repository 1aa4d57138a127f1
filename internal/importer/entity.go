package importer

import (
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

// EntityKind is the upload target named in the request path.
type EntityKind string

const (
	KindBrands     EntityKind = "brands"
	KindCategories EntityKind = "categories"
	KindAgeGroups  EntityKind = "ageGroups"
	KindProducts   EntityKind = "products"
)

var supportedKinds = []EntityKind{KindBrands, KindCategories, KindAgeGroups, KindProducts}

// Kinds lists every supported upload target.
func Kinds() []EntityKind {
	out := make([]EntityKind, len(supportedKinds))
	copy(out, supportedKinds)
	return out
}

func ParseEntityKind(value string) (EntityKind, error) {
	for _, kind := range supportedKinds {
		if string(kind) == value {
			return kind, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeUnsupportedEntity, "Unsupported entity").
		WithDetails(map[string]any{"entity": value, "supported": supportedKinds})
}
