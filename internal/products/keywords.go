package product

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Keywords decodes either a comma-separated string or a JSON array of strings.
type Keywords []string

func (k *Keywords) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, string, []any:
	default:
		return fmt.Errorf("keywords must be a string or an array of strings")
	}
	*k = ParseKeywords(raw)
	return nil
}

// ParseKeywords normalizes a keyword value into an ordered list. Strings are
// split on commas; lists keep their order. Items are trimmed and blanks dropped.
func ParseKeywords(value any) []string {
	out := []string{}
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	switch v := value.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
	case []string:
		for _, s := range v {
			add(s)
		}
	case Keywords:
		for _, s := range v {
			add(s)
		}
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			add(scalarString(item))
		}
	default:
		add(scalarString(v))
	}
	return out
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
