package model

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCategory_ColumnTitle(t *testing.T) {
	cat := Category{
		ID:           "doors",
		ColumnTitles: map[string]string{"doors_number": "Door no."},
	}
	cases := []struct {
		key  string
		want string
	}{
		{"doors_number", "Door no."},
		{"doors_quantity", "Quantity"},
		{"room_id", "Room id"},
		{"doors_état_porte", "État porte"},
		{"équipement", "Équipement"},
		{"doors_", "doors_"},
	}
	for _, tc := range cases {
		got := cat.ColumnTitle(tc.key)
		require.Equal(t, tc.want, got, tc.key)
		require.True(t, utf8.ValidString(got), tc.key)
	}
}

func TestCategory_IdentifierField(t *testing.T) {
	require.Equal(t, "doors_id", Category{ID: "doors"}.IdentifierField())
	require.Equal(t, "pk", Category{ID: "doors", IDField: " pk "}.IdentifierField())
}
