package render

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"roomprog/internal/model"

	"golang.org/x/text/cases"
)

type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// Sort is the client-side display order of a table. It never touches cached data.
type Sort struct {
	Column    string
	Direction Direction
}

// Cycle advances the tri-state for column: none -> asc -> desc -> asc ...
// Switching to another column starts over at ascending.
func (s Sort) Cycle(column string) Sort {
	if column != s.Column || s.Direction == Unsorted || s.Direction == Descending {
		return Sort{Column: column, Direction: Ascending}
	}
	return Sort{Column: column, Direction: Descending}
}

func (s Sort) For(column string) Direction {
	if s.Column != column {
		return Unsorted
	}
	return s.Direction
}

// Order returns row indexes in display order. Ties keep fetch order.
func Order(rows []model.Record, s Sort) []int {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	if s.Column == "" || s.Direction == Unsorted || len(rows) < 2 {
		return idx
	}

	cmp := columnComparer(rows, s.Column)
	sort.SliceStable(idx, func(a, b int) bool {
		c := cmp(idx[a], idx[b])
		if s.Direction == Descending {
			return c > 0
		}
		return c < 0
	})
	return idx
}

// columnComparer compares numerically only when every non-empty value of the
// column is a number. Otherwise the whole column compares as folded strings,
// which keeps the ordering total.
func columnComparer(rows []model.Record, column string) func(i, j int) int {
	texts := make([]string, len(rows))
	nums := make([]float64, len(rows))
	numeric := true
	for i, r := range rows {
		texts[i] = strings.TrimSpace(r.Text(column))
		if texts[i] == "" {
			nums[i] = math.Inf(-1)
			continue
		}
		f, ok := parseNumber(texts[i])
		if !ok {
			numeric = false
		}
		nums[i] = f
	}

	if numeric {
		return func(i, j int) int {
			switch {
			case nums[i] < nums[j]:
				return -1
			case nums[i] > nums[j]:
				return 1
			}
			return 0
		}
	}

	fold := cases.Fold()
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = fold.String(t)
	}
	return func(i, j int) int { return strings.Compare(keys[i], keys[j]) }
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
