// Package export writes a room's category data to an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"roomprog/internal/model"
	"roomprog/internal/render"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	roomSheet    = "Room"
	maxSheetName = 31
)

// Room writes one summary sheet for the room followed by one sheet per
// category, in catalog order. Categories missing from data get header-only sheets.
func Room(w io.Writer, room model.Room, cats []model.Category, data map[string]model.CategoryData) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	info := render.RoomPanel(room)
	summary := [][]string{
		{"Room", info.Name},
		{"Functional unit", info.Unit},
		{"Sector", info.Sector},
		{"Program number", info.ProgramNumber},
		{"Planned area", info.Area},
	}
	if err := f.SetSheetName("Sheet1", roomSheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if err := writeSheet(f, roomSheet, []string{"Field", "Value"}, summary, header); err != nil {
		return err
	}

	used := map[string]bool{strings.ToLower(roomSheet): true}
	for _, cat := range cats {
		name := sheetName(cat, used)
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "create sheet %s", name)
		}
		d, ok := data[cat.ID]
		if !ok {
			d = model.NewCategoryData(cat, room.ID, nil)
		}
		headers, rows := categoryRows(cat, d)
		if err := writeSheet(f, name, headers, rows, header); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

// categoryRows lays out tabular data as rows and a special record as field/value pairs.
func categoryRows(cat model.Category, d model.CategoryData) ([]string, [][]string) {
	if cat.Special {
		form := render.Form(cat, d, false)
		rows := make([][]string, 0, len(form.Fields))
		for _, f := range form.Fields {
			rows = append(rows, []string{f.Label, f.Value})
		}
		return []string{"Field", "Value"}, rows
	}
	tv := render.Table(cat, d, render.Sort{})
	headers := make([]string, 0, len(tv.Columns))
	for _, c := range tv.Columns {
		headers = append(headers, c.Title)
	}
	rows := make([][]string, 0, len(tv.Rows))
	for _, r := range tv.Rows {
		rows = append(rows, r.Cells)
	}
	return headers, rows
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string, headerStyle int) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrapf(err, "set %s!%s", sheet, cell)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return errors.Wrapf(err, "style %s!%s", sheet, cell)
		}
	}
	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.Wrapf(err, "set %s!%s", sheet, cell)
			}
		}
	}
	for col := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := f.SetColWidth(sheet, name, name, 22); err != nil {
			return errors.Wrapf(err, "width %s", sheet)
		}
	}
	return nil
}

// sheetName derives a unique, valid worksheet name from the category title.
// Excel compares sheet names case-insensitively.
func sheetName(cat model.Category, used map[string]bool) string {
	clean := []rune(strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]'`, r) {
			return '-'
		}
		return r
	}, cat.DisplayTitle()))
	name := truncate(clean, maxSheetName)
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(clean, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(r []rune, n int) string {
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
