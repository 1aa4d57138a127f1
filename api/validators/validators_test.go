package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

type brandBody struct {
	Name     string          `json:"name" validate:"required"`
	Discount decimal.Decimal `json:"discount" validate:"gte=0,lte=100"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/brands", strings.NewReader(`{"name":"Lego","discount":12.5}`))
	var body brandBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, "Lego", body.Name)
	assert.True(t, body.Discount.Equal(decimal.RequireFromString("12.5")))
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/brands", strings.NewReader(`{"name":"Lego","colour":"red"}`))
	var body brandBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyValidatesDecimals(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/brands", strings.NewReader(`{"name":"Lego","discount":120}`))
	var body brandBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, map[string]string{"discount": "must be at most 100"}, typed.Details())
}

func TestDecodeJSONBodyRequiredField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/brands", strings.NewReader(`{"discount":5}`))
	var body brandBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "is required"}, pkgerrors.As(err).Details())
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/storefront/recommended?limit=12", nil)
	v, err := ParseQueryInt(req, "limit", 8, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	req = httptest.NewRequest(http.MethodGet, "/api/storefront/recommended", nil)
	v, err = ParseQueryInt(req, "limit", 8, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	req = httptest.NewRequest(http.MethodGet, "/api/storefront/recommended?limit=abc", nil)
	_, err = ParseQueryInt(req, "limit", 8, 1, 50)
	require.Error(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/storefront/recommended?limit=500", nil)
	_, err = ParseQueryInt(req, "limit", 8, 1, 50)
	require.Error(t, err)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Puzzles", SanitizeString("  Puzzles ", 0))
	assert.Equal(t, "Puz", SanitizeString("Puzzles", 3))

	assert.Equal(t, "Juguetes niñ", SanitizeString("Juguetes niño", 12))
	assert.True(t, utf8.ValidString(SanitizeString("ñññ", 2)))
	assert.Equal(t, "ññ", SanitizeString("ñññ", 2))
}
