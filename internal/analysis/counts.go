package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/malfinder/internal/catalog"
)

// Top-K limits for frequency breakdowns.
const (
	StatsTopK = 5
	ChartTopK = 10
)

// CategoryCount is one (value, frequency) pair.
type CategoryCount struct {
	Value string
	Count int
}

// TopK counts values and returns them by descending count. Ties keep the
// order in which values were first seen. k <= 0 keeps every value.
func TopK(values []string, k int) []CategoryCount {
	counts := make(map[string]int, len(values))
	var order []string
	for _, v := range values {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]CategoryCount, len(order))
	for i, v := range order {
		out[i] = CategoryCount{Value: v, Count: counts[v]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// ParseEncodedList decodes a list-encoded cell such as "['Action', 'Comedy']".
// One leading '[' and one trailing ']' are stripped, quote characters are
// removed and the rest is split on ", ". Empty tokens are dropped; a null
// cell yields an empty list.
//
// Charts use SplitPlain instead. The two rules can disagree on which distinct
// tokens exist (SplitPlain keeps brackets, quotes and leading spaces); they
// are kept separate so neither output changes silently. Unifying them is a
// candidate cleanup.
func ParseEncodedList(v catalog.Value) []string {
	if v.Null {
		return nil
	}
	s := strings.TrimPrefix(v.Text, "[")
	s = strings.TrimSuffix(s, "]")
	s = strings.NewReplacer("'", "", `"`, "").Replace(s)
	var out []string
	for _, tok := range strings.Split(s, ", ") {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// SplitPlain splits a cell on every comma with no trimming or bracket
// handling. A null cell yields an empty list. See ParseEncodedList.
func SplitPlain(v catalog.Value) []string {
	if v.Null {
		return nil
	}
	return strings.Split(v.Text, ",")
}

// Tokens flattens a column through parse. Absent columns yield false.
func Tokens(t *catalog.Table, column string, parse func(catalog.Value) []string) ([]string, bool) {
	vals, ok := t.Column(column)
	if !ok {
		return nil, false
	}
	var out []string
	for _, v := range vals {
		out = append(out, parse(v)...)
	}
	return out, true
}

// Literals returns the non-null cells of a column. Absent columns yield false.
func Literals(t *catalog.Table, column string) ([]string, bool) {
	vals, ok := t.Column(column)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if !v.Null {
			out = append(out, v.Text)
		}
	}
	return out, true
}
