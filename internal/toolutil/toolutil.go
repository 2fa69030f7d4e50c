// Package toolutil provides shared input helpers for the MCP tools and CLI commands.
package toolutil

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/anatolykoptev/go_transcript/internal/engine/youtube"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v's `validate` tags and reports the first violation in
// "<field> <rule>" form, using the json name of the field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	name := jsonName(v, fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "min", "max", "gte", "lte":
		return fmt.Errorf("%s must be %s %s", name, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%s is invalid (%s)", name, fe.Tag())
}

// NormLangs lowercases and de-duplicates language codes, splitting comma lists.
// Empty input yields ["en"].
func NormLangs(langs []string) []string {
	seen := make(map[string]bool, len(langs))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		for _, code := range strings.Split(l, ",") {
			code = strings.ToLower(strings.TrimSpace(code))
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	if len(out) == 0 {
		return []string{"en"}
	}
	return out
}

// ClampLimit returns def for n <= 0 and ceiling for n > ceiling.
func ClampLimit(n, def, ceiling int) int {
	switch {
	case n <= 0:
		return def
	case n > ceiling:
		return ceiling
	}
	return n
}

// NormVideoID accepts a bare ID or any YouTube URL form.
func NormVideoID(raw string) string {
	return youtube.ExtractVideoID(raw)
}

func jsonName(v any, field string) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return field
	}
	sf, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field
	}
	return name
}
