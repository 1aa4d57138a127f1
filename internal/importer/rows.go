package importer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	internalproduct "github.com/giggleglory/backoffice/internal/products"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
	"github.com/giggleglory/backoffice/pkg/spreadsheet"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := f.Tag.Get("sheet")
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// Range tags on decimals compare the float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

type brandRow struct {
	Name     string          `sheet:"name" validate:"required,max=255"`
	Discount decimal.Decimal `sheet:"discount" validate:"gte=0,lte=100"`
}

type categoryRow struct {
	Name string `sheet:"name" validate:"required,max=255"`
}

type ageGroupRow struct {
	Label string `sheet:"label" validate:"required,max=255"`
}

type productRow struct {
	Name        string          `sheet:"name" validate:"required,max=255"`
	SKU         string          `sheet:"sku" validate:"required,max=128"`
	Price       decimal.Decimal `sheet:"price" validate:"gte=0"`
	Discount    decimal.Decimal `sheet:"discount" validate:"gte=0,lte=100"`
	Description string          `sheet:"description"`
	Keywords    []string        `sheet:"keywords"`
	MetaTitle   string          `sheet:"metaTitle" validate:"max=255"`
	MetaDesc    string          `sheet:"metaDesc"`
	Brand       string          `sheet:"brand"`
	Category    string          `sheet:"category"`
	AgeGroup    string          `sheet:"ageGroup"`
}

func decodeBrandRow(row spreadsheet.Row) (brandRow, error) {
	discount, _, err := row.Decimal("discount")
	if err != nil {
		return brandRow{}, cellError("discount", err)
	}
	out := brandRow{Name: row.String("name"), Discount: discount}
	return out, validateRow(out)
}

func decodeCategoryRow(row spreadsheet.Row) (categoryRow, error) {
	out := categoryRow{Name: row.String("name")}
	return out, validateRow(out)
}

func decodeAgeGroupRow(row spreadsheet.Row) (ageGroupRow, error) {
	out := ageGroupRow{Label: row.String("label")}
	return out, validateRow(out)
}

func decodeProductRow(row spreadsheet.Row) (productRow, error) {
	price, ok, err := row.Decimal("price")
	if err != nil {
		return productRow{}, cellError("price", err)
	}
	if !ok {
		return productRow{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"price": "is required"})
	}
	discount, _, err := row.Decimal("discount")
	if err != nil {
		return productRow{}, cellError("discount", err)
	}
	keywords, _ := row.Get("keywords")

	out := productRow{
		Name:        row.String("name"),
		SKU:         row.String("sku"),
		Price:       price,
		Discount:    discount,
		Description: row.String("description"),
		Keywords:    internalproduct.ParseKeywords(keywords),
		MetaTitle:   row.String("metaTitle"),
		MetaDesc:    row.String("metaDesc"),
		Brand:       row.String("brand"),
		Category:    row.String("category"),
		AgeGroup:    row.String("ageGroup"),
	}
	return out, validateRow(out)
}

func validateRow(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg := validationMessage(fe)
		details[fe.Field()] = msg
		msgs = append(msgs, fe.Field()+" "+msg)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, strings.Join(msgs, "; ")).WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}

func cellError(column string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s is not a number", column)).
		WithDetails(map[string]string{column: "must be a number"})
}
