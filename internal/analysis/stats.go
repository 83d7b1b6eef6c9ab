package analysis

import "github.com/KaramelBytes/malfinder/internal/catalog"

// NumericStat is the rounded description of one numeric column.
type NumericStat struct {
	Column string
	Desc   Description
}

// CategoryStat is the top-K breakdown of one categorical column.
type CategoryStat struct {
	Column string
	Counts []CategoryCount
}

// Stats is the aggregation result for a table. Both slices follow schema order.
type Stats struct {
	Numeric []NumericStat
	Counts  []CategoryStat
}

// NumericColumn returns the stats of the named numeric column, if present.
func (s Stats) NumericColumn(name string) (Description, bool) {
	for _, n := range s.Numeric {
		if n.Column == name {
			return n.Desc, true
		}
	}
	return Description{}, false
}

// CountsFor returns the breakdown of the named categorical column, if present.
func (s Stats) CountsFor(name string) ([]CategoryCount, bool) {
	for _, c := range s.Counts {
		if c.Column == name {
			return c.Counts, true
		}
	}
	return nil, false
}

// BasicStats computes descriptive statistics for every present numeric
// schema column and top-5 counts for every present categorical one.
// Multi-valued columns are parsed with ParseEncodedList. Columns with no
// counts are excluded; an empty table yields no numeric stats.
func BasicStats(t *catalog.Table) Stats {
	var s Stats
	if t.Len() > 0 {
		for _, col := range catalog.ColumnsOf(catalog.Numeric) {
			vals, ok := t.Floats(col.Name)
			if !ok {
				continue
			}
			s.Numeric = append(s.Numeric, NumericStat{Column: col.Name, Desc: Describe(vals).Rounded()})
		}
	}
	for _, col := range catalog.ColumnsOf(catalog.Categorical, catalog.MultiCategorical) {
		if counts := categoryCounts(t, col, StatsTopK); len(counts) > 0 {
			s.Counts = append(s.Counts, CategoryStat{Column: col.Name, Counts: counts})
		}
	}
	return s
}

func categoryCounts(t *catalog.Table, col catalog.Column, k int) []CategoryCount {
	var (
		vals []string
		ok   bool
	)
	if col.Kind == catalog.MultiCategorical {
		vals, ok = Tokens(t, col.Name, ParseEncodedList)
	} else {
		vals, ok = Literals(t, col.Name)
	}
	if !ok {
		return nil
	}
	return TopK(vals, k)
}
