package catalog

// Kind is the semantic kind of a recognized catalog column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	MultiCategorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case MultiCategorical:
		return "multi-categorical"
	default:
		return "unknown"
	}
}

// Column names understood by the aggregator, the composer and the UIs.
const (
	ColTitle        = "Title"
	ColURL          = "Url"
	ColDescription  = "Description"
	ColType         = "Type"
	ColEpisodes     = "Episodes"
	ColScore        = "Score"
	ColPopularity   = "Popularity"
	ColGenres       = "Genres"
	ColThemes       = "Themes"
	ColDemographics = "Demographics"
)

// Column is one entry of the recognized schema.
type Column struct {
	Name string
	Kind Kind
}

// Schema lists the recognized statistic columns in report order.
// Any subset may be absent from a given table.
var Schema = []Column{
	{Name: ColEpisodes, Kind: Numeric},
	{Name: ColScore, Kind: Numeric},
	{Name: ColPopularity, Kind: Numeric},
	{Name: ColType, Kind: Categorical},
	{Name: ColGenres, Kind: MultiCategorical},
	{Name: ColThemes, Kind: MultiCategorical},
	{Name: ColDemographics, Kind: Categorical},
}

// DisplayColumns is the column order used when showing search results.
var DisplayColumns = []string{
	ColTitle, ColURL, ColDescription, ColType, ColEpisodes, ColScore,
	ColPopularity, ColGenres, ColThemes, ColDemographics,
}

// ColumnsOf returns the schema columns of the given kind, in schema order.
func ColumnsOf(kinds ...Kind) []Column {
	var out []Column
	for _, c := range Schema {
		for _, k := range kinds {
			if c.Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
