package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/malfinder/internal/catalog"
)

// Summarize returns the human-readable summary sentences for a result table.
// Sentences whose column is absent, or that have nothing to report, are
// left out; for an empty table only the row count remains.
func Summarize(t *catalog.Table) []string {
	out := []string{fmt.Sprintf("Analysis based on %d results.", t.Len())}
	if t.Len() == 0 {
		return out
	}
	for _, step := range []func(*catalog.Table) (string, bool){
		scoreSentence,
		typeSentence,
		genreSentence,
	} {
		if s, ok := step(t); ok {
			out = append(out, s)
		}
	}
	return out
}

// SummaryText joins Summarize with line breaks.
func SummaryText(t *catalog.Table) string {
	return strings.Join(Summarize(t), "\n")
}

func scoreSentence(t *catalog.Table) (string, bool) {
	scores, ok := t.Floats(catalog.ColScore)
	if !ok || len(scores) == 0 {
		return "", false
	}
	d := Describe(scores)
	return fmt.Sprintf("Average score: %.2f (range: %.2f-%.2f)", d.Mean, d.Min, d.Max), true
}

func typeSentence(t *catalog.Table) (string, bool) {
	types, ok := Literals(t, catalog.ColType)
	if !ok {
		return "", false
	}
	top := TopK(types, 1)
	if len(top) == 0 {
		return "Most common type: N/A (0 titles)", true
	}
	return fmt.Sprintf("Most common type: %s (%d titles)", top[0].Value, top[0].Count), true
}

func genreSentence(t *catalog.Table) (string, bool) {
	genres, ok := Tokens(t, catalog.ColGenres, ParseEncodedList)
	if !ok {
		return "", false
	}
	top := TopK(genres, 1)
	if len(top) == 0 {
		return "", false
	}
	return fmt.Sprintf("Most frequent genre: %s (appears in %d titles)", top[0].Value, top[0].Count), true
}
