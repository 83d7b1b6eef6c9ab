package server

import (
	"html/template"
	"strings"
)

var funcs = template.FuncMap{
	"signed": func(s string) bool {
		return s != "" && !strings.HasPrefix(s, "-")
	},
}

const indexHTML = `{{define "index"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>MALFinder</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 1100px; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; vertical-align: top; }
.metric { display: inline-block; margin-right: 2rem; }
.metric .value { font-size: 1.6rem; }
.up { color: #2a7a2a; } .down { color: #a33; }
iframe { border: 0; width: 100%; height: 1800px; }
</style>
</head>
<body>
<h1>MALFinder</h1>
<form method="get" action="/">
  <input type="text" name="q" value="{{.Query}}" size="70" placeholder="Describe the anime you are looking for">
  <input type="number" name="n" value="{{.N}}" min="1">
  <button type="submit">Search</button>
</form>
{{if .Searched}}
<h2>Analysis Summary</h2>
{{range .Summary}}<p>{{.}}</p>{{end}}
{{range .Metrics}}<div class="metric"><div>{{.Label}}</div><div class="value">{{.Value}}</div>{{if .Delta}}<div class="{{if signed .Delta}}up{{else}}down{{end}}">{{.Delta}} vs catalog</div>{{end}}</div>{{end}}
<p>
  <a href="{{.Links.CSV}}">Download results (CSV)</a> |
  <a href="{{.Links.Report}}">Download report (DOCX)</a>
</p>
<h2>Results</h2>
{{if .Rows}}
<table>
<tr><th>#</th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{else}}<p>No results.</p>{{end}}
{{if .Numeric.Header}}
<h2>Numeric Features</h2>
<table>
<tr>{{range .Numeric.Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Numeric.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
{{end}}
{{if .Counts}}
<h2>Categorical Features</h2>
{{range .Counts}}<h3>{{.Column}}</h3>
<table>{{range .Counts}}<tr><td>{{.Value}}</td><td>{{.Count}}</td></tr>{{end}}</table>
{{end}}
{{end}}
<h2>Visualizations</h2>
<iframe src="{{.Links.Charts}}"></iframe>
{{end}}
</body>
</html>
{{end}}`
