// Package certificate turns a stored certificate template and an artwork
// into a self-contained, print-ready HTML document.
package certificate

import (
	"fmt"
	"html"
	"reflect"
	"strings"
)

// Dash is substituted for absent or blank values.
const Dash = "—"

// FormatValue renders v as HTML-safe text, or Dash when v is absent or blank.
func FormatValue(v any) string {
	if isNil(v) {
		return Dash
	}

	var s string
	switch t := v.(type) {
	case string:
		s = t
	case *string:
		s = *t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return Dash
	}
	return html.EscapeString(s)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
