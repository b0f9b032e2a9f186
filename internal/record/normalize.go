package record

import (
	"regexp"
	"strings"
	"time"

	"github.com/dbsmedya/docsmith/internal/value"
)

// NameStyle is a field-name convention a normalizer can rewrite keys into.
type NameStyle string

const (
	SnakeCase  NameStyle = "snake_case"
	CamelCase  NameStyle = "camelCase"
	PascalCase NameStyle = "PascalCase"
	KebabCase  NameStyle = "kebab-case"
)

// ParseNameStyle validates a style name from configuration.
func ParseNameStyle(s string) (NameStyle, bool) {
	switch NameStyle(s) {
	case SnakeCase, CamelCase, PascalCase, KebabCase:
		return NameStyle(s), true
	}
	return "", false
}

var (
	camelBoundary   = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	capitalBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	spacesHyphens   = regexp.MustCompile(`[-\s]+`)
)

func toSnake(name string) string {
	s := camelBoundary.ReplaceAllString(name, "${1}_${2}")
	s = capitalBoundary.ReplaceAllString(s, "${1}_${2}")
	s = spacesHyphens.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

func toCamel(name string) string {
	parts := strings.Split(toSnake(name), "_")
	out := parts[0]
	for _, p := range parts[1:] {
		out += capitalize(p)
	}
	return out
}

func toPascal(name string) string {
	var out string
	for _, p := range strings.Split(toSnake(name), "_") {
		out += capitalize(p)
	}
	return out
}

func toKebab(name string) string {
	return strings.ReplaceAll(toSnake(name), "_", "-")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s NameStyle) apply(name string) string {
	switch s {
	case CamelCase:
		return toCamel(name)
	case PascalCase:
		return toPascal(name)
	case KebabCase:
		return toKebab(name)
	default:
		return toSnake(name)
	}
}

// NormalizeRecord returns a new record whose keys follow the given style,
// recursing through nested mappings and through mappings inside sequences.
// The input record is left untouched.
func NormalizeRecord(r *Record, style NameStyle) *Record {
	return &Record{
		Fields: normalizeValue(r.Fields, style),
		Source: r.Source,
		Meta: Meta{
			CreatedAt:  time.Now(),
			Loader:     r.Meta.Loader,
			Normalized: string(style),
		},
	}
}

// NormalizeCollection normalizes every record, producing a new collection.
func NormalizeCollection(c *Collection, style NameStyle) *Collection {
	out := NewCollection(c.Source, c.Meta.Loader)
	out.Meta.Normalized = string(style)
	for _, r := range c.Records {
		out.Add(NormalizeRecord(r, style))
	}
	return out
}

func normalizeValue(v value.Value, style NameStyle) value.Value {
	switch v.Kind() {
	case value.KindMapping:
		out := value.Mapping()
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			out.Set(style.apply(k), normalizeValue(child, style))
		}
		return out
	case value.KindSequence:
		elems := make([]value.Value, 0, v.Len())
		for _, e := range v.Items() {
			elems = append(elems, normalizeValue(e, style))
		}
		return value.Sequence(elems...)
	default:
		return v
	}
}
