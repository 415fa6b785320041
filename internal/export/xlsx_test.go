package export

import (
	"bytes"
	"testing"

	"roomprog/internal/model"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRoom_WritesOneSheetPerCategory(t *testing.T) {
	doors := model.Category{ID: "doors", Title: "Doors", Columns: []string{"doors_number", "doors_quantity"}}
	fn := model.Category{ID: "functionality", Title: "Functionality", Special: true, Columns: []string{"functionality_description"}}
	room := model.Room{ID: "42", Name: "Lab-204", Sector: "B", FunctionalUnit: "Research", PlannedArea: "12.5"}
	data := map[string]model.CategoryData{
		"doors": model.NewCategoryData(doors, "42", []model.Record{
			{"doors_id": "7", "doors_number": "D-1", "doors_quantity": "2"},
		}),
		"functionality": model.NewCategoryData(fn, "42", []model.Record{
			{"functionality_description": "wet lab"},
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, Room(&buf, room, []model.Category{fn, doors}, data))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Room", "Functionality", "Doors"}, f.GetSheetList())

	rows, err := f.GetRows("Doors")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Number", "Quantity"}, {"D-1", "2"}}, rows)

	rows, err = f.GetRows("Functionality")
	require.NoError(t, err)
	require.Equal(t, "wet lab", rows[1][1])

	rows, err = f.GetRows("Room")
	require.NoError(t, err)
	require.Equal(t, []string{"Planned area", "12.50 m²"}, rows[5])
}

func TestSheetName_UniqueAndValid(t *testing.T) {
	used := map[string]bool{"room": true}
	long := model.Category{ID: "x", Title: "Risk elements: gases/chemicals and more text"}
	a := sheetName(long, used)
	b := sheetName(long, used)
	require.LessOrEqual(t, len([]rune(a)), maxSheetName)
	require.NotContains(t, a, ":")
	require.NotContains(t, a, "/")
	require.NotEqual(t, a, b)
	require.Equal(t, "room (2)", sheetName(model.Category{ID: "room"}, used))
}
