package types

import (
	"fmt"
	"strings"
)

type Field struct {
	Name     string
	Type     DataType
	Nullable bool
}

func (self Field) String() string {
	if self.Nullable {
		return fmt.Sprintf("%s: %s", self.Name, self.Type)
	}
	return fmt.Sprintf("%s: %s NOT NULL", self.Name, self.Type)
}

// Schema is an ordered, immutable list of fields. Field names are unique,
// which NewSchema enforces, so a lookup by name is never ambiguous.
type Schema struct {
	fields []Field
}

func NewSchema(fields ...Field) (Schema, error) {
	seen := make(map[string]int, len(fields))
	for idx, f := range fields {
		if prev, ok := seen[f.Name]; ok {
			return Schema{}, ValidationErrorf(
				"duplicate field name %q at positions %d and %d",
				f.Name,
				prev,
				idx,
			)
		}
		seen[f.Name] = idx
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return Schema{fields: out}, nil
}

// MustSchema is NewSchema for field lists already known to be unique.
func MustSchema(fields ...Field) Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err.Error())
	}
	return s
}

func (self Schema) Len() int { return len(self.fields) }

func (self Schema) Field(idx int) Field { return self.fields[idx] }

func (self Schema) Fields() []Field {
	out := make([]Field, len(self.fields))
	copy(out, self.fields)
	return out
}

func (self Schema) Names() []string {
	out := make([]string, 0, len(self.fields))
	for _, f := range self.fields {
		out = append(out, f.Name)
	}
	return out
}

// IndexOf returns the position of the field with exactly this name, or -1.
func (self Schema) IndexOf(name string) int {
	for idx, f := range self.fields {
		if f.Name == name {
			return idx
		}
	}
	return -1
}

func (self Schema) Lookup(name string) (Field, bool) {
	if idx := self.IndexOf(name); idx >= 0 {
		return self.fields[idx], true
	}
	return Field{}, false
}

// Project returns the sub schema made of the named fields, in the requested
// order. Every projected field is nullable.
func (self Schema) Project(names ...string) (Schema, error) {
	out := make([]Field, 0, len(names))
	for _, n := range names {
		f, ok := self.Lookup(n)
		if !ok {
			return Schema{}, ValidationErrorf("column not found: %q", n)
		}
		f.Nullable = true
		out = append(out, f)
	}
	return NewSchema(out...)
}

func (self Schema) String() string {
	l := make([]string, 0, len(self.fields))
	for _, f := range self.fields {
		l = append(l, f.String())
	}
	return "[" + strings.Join(l, ", ") + "]"
}
