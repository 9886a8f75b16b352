package db

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// FieldKind is the RediSearch type of an indexed field.
type FieldKind string

// Field kinds used by the report and match indexes.
const (
	KindTag     FieldKind = "TAG"
	KindText    FieldKind = "TEXT"
	KindNumeric FieldKind = "NUMERIC"
)

// Field maps a JSONPath inside stored documents to the alias queries use.
type Field struct {
	Path     string
	Alias    string
	Kind     FieldKind
	Sortable bool

	// Separator splits TAG values. Empty keeps the server default (",").
	Separator string
	// Weight scales TEXT relevance. Zero keeps the server default (1.0).
	Weight float64
}

// TagField indexes path as an exact-match tag.
func TagField(path, alias string) Field {
	return Field{Path: path, Alias: alias, Kind: KindTag}
}

// TextField indexes path for full-text search.
func TextField(path, alias string) Field {
	return Field{Path: path, Alias: alias, Kind: KindText}
}

// NumericField indexes path for range filters and sorting.
func NumericField(path, alias string) Field {
	return Field{Path: path, Alias: alias, Kind: KindNumeric}
}

// SeparatedBy returns a copy of the tag field split on sep.
func (f Field) SeparatedBy(sep string) Field {
	f.Separator = sep
	return f
}

// Weighted returns a copy of the text field with relevance weight w.
func (f Field) Weighted(w float64) Field {
	f.Weight = w
	return f
}

// Sorted returns a copy of the field marked SORTABLE.
func (f Field) Sorted() Field {
	f.Sortable = true
	return f
}

func (f *Field) validate() error {
	if !strings.HasPrefix(f.Path, "$.") {
		return fmt.Errorf("field path %q must start with $.", f.Path)
	}
	if !IsValidIdentifier(f.Alias) {
		return fmt.Errorf("field %s: invalid alias %q", f.Path, f.Alias)
	}
	switch f.Kind {
	case KindTag, KindText, KindNumeric:
	default:
		return fmt.Errorf("field %s: unknown kind %q", f.Alias, f.Kind)
	}
	if f.Separator != "" && (f.Kind != KindTag || len([]rune(f.Separator)) != 1) {
		return fmt.Errorf("field %s: separator must be a single character on a TAG field", f.Alias)
	}
	if f.Weight < 0 || (f.Weight > 0 && f.Kind != KindText) {
		return fmt.Errorf("field %s: weight must be positive and on a TEXT field", f.Alias)
	}
	return nil
}

// IndexDefinition is an FT index over the JSON documents under one key prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []Field
}

// JSONIndex assembles and validates an index definition.
func JSONIndex(name, prefix string, fields ...Field) (*IndexDefinition, error) {
	idx := &IndexDefinition{Name: name, Prefix: prefix, Fields: fields}
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return idx, nil
}

// MustJSONIndex is JSONIndex for package-level definitions; it panics on an invalid schema.
func MustJSONIndex(name, prefix string, fields ...Field) *IndexDefinition {
	idx, err := JSONIndex(name, prefix, fields...)
	if err != nil {
		panic(err)
	}
	return idx
}

// Validate checks names, prefix and fields. Aliases must be unique.
func (idx *IndexDefinition) Validate() error {
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("invalid index name %q", idx.Name)
	}
	if idx.Prefix == "" {
		return errors.New("index prefix is required")
	}
	if len(idx.Fields) == 0 {
		return errors.New("index needs at least one field")
	}

	aliases := make(map[string]struct{}, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if err := f.validate(); err != nil {
			return err
		}
		if _, dup := aliases[f.Alias]; dup {
			return fmt.Errorf("duplicate field alias %q", f.Alias)
		}
		aliases[f.Alias] = struct{}{}
	}
	return nil
}

// Field returns the field exposed under alias.
func (idx *IndexDefinition) Field(alias string) (Field, bool) {
	for _, f := range idx.Fields {
		if f.Alias == alias {
			return f, true
		}
	}
	return Field{}, false
}

// IsValidIdentifier reports whether s is a non-empty run of ASCII letters,
// digits, '_', ':' or '-'.
func IsValidIdentifier(s string) bool {
	return s != "" && !strings.ContainsFunc(s, func(r rune) bool {
		if r > unicode.MaxASCII {
			return true
		}
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("_:-", r)
	})
}
