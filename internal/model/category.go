package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category describes one tab of the room view. Descriptors are read-only configuration.
type Category struct {
	ID      string   `yaml:"id" json:"id"`
	Title   string   `yaml:"title" json:"title"`
	Columns []string `yaml:"columns" json:"columns"`
	Special bool     `yaml:"special,omitempty" json:"special,omitempty"`
	// IDField names the row identifier; defaults to "<id>_id".
	IDField      string              `yaml:"id_field,omitempty" json:"idField,omitempty"`
	ColumnTitles map[string]string   `yaml:"column_titles,omitempty" json:"columnTitles,omitempty"`
	Options      map[string][]string `yaml:"options,omitempty" json:"options,omitempty"`
}

func (c Category) IdentifierField() string {
	if f := strings.TrimSpace(c.IDField); f != "" {
		return f
	}
	return c.ID + "_id"
}

func (c Category) DisplayTitle() string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return c.ID
}

// ColumnTitle returns the configured title, or a humanized field name with the
// category prefix stripped ("doors_quantity" -> "Quantity").
func (c Category) ColumnTitle(key string) string {
	if t := strings.TrimSpace(c.ColumnTitles[key]); t != "" {
		return t
	}
	k := strings.TrimPrefix(key, c.ID+"_")
	k = strings.ReplaceAll(k, "_", " ")
	if k == "" {
		return key
	}
	r, n := utf8.DecodeRuneInString(k)
	return string(unicode.ToUpper(r)) + k[n:]
}
