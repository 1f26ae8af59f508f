// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dashboard

import "html/template"

var templates = template.Must(template.New("").Parse(`
{{define "head"}}
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>{{.Title}} - Paper Trends</title>
	<style>
		* { box-sizing: border-box; }
		body { font-family: system-ui, sans-serif; max-width: 960px; margin: 0 auto; padding: 1rem; line-height: 1.5; }
		a { color: #0066cc; }
		.nav { margin-bottom: 1rem; }
		.controls { background: #f8f9fa; border-radius: 4px; padding: 1rem; margin: 1rem 0; }
		.controls label { margin-right: 1rem; }
		.controls textarea { width: 100%; font-size: 0.95rem; padding: 0.4rem; }
		.controls .row { margin: 0.5rem 0; }
		.suggested { display: flex; flex-wrap: wrap; gap: 0.25rem 1rem; }
		.btn { display: inline-block; padding: 0.4rem 0.8rem; background: #0066cc; color: white; border: none; border-radius: 4px; cursor: pointer; font-size: 0.9rem; }
		.btn:hover { background: #0052a3; }
		.chart { border: 1px solid #ddd; border-radius: 4px; background: #fff; margin: 1rem 0; }
		.chart text { font-size: 11px; fill: #666; }
		.legend { display: flex; flex-wrap: wrap; gap: 0.25rem 1.25rem; font-size: 0.9rem; margin: 0.5rem 0 1rem; }
		.legend-swatch { display: inline-block; width: 12px; height: 3px; vertical-align: middle; margin-right: 0.4rem; }
		.empty { color: #666; background: #fff3cd; padding: 0.75rem 1rem; border-radius: 4px; }
		.error { color: #842029; background: #f8d7da; padding: 0.75rem 1rem; border-radius: 4px; }
		table { border-collapse: collapse; width: 100%; font-size: 0.92rem; }
		th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #eee; vertical-align: top; }
		th { background: #f8f9fa; }
		.muted { color: #666; font-size: 0.85rem; }
	</style>
</head>
<body>
<div class="nav"><a href="/">Trends</a> | <a href="/recent">Recent papers</a></div>
{{end}}

{{define "foot"}}
</body>
</html>
{{end}}

{{define "index"}}
{{template "head" .}}
<h1>Paper Trends</h1>
<p>Plot how often search terms appear in working-paper titles and abstracts, by publication year.</p>

<form class="controls" action="/" method="get">
	<div class="row suggested">
		{{range .Suggested}}
		<label><input type="checkbox" name="term" value="{{.Term}}" {{if .Checked}}checked{{end}}> {{.Term}}</label>
		{{end}}
	</div>
	<div class="row">
		<textarea name="custom" rows="2" placeholder="Custom terms, one per line (e.g. climate change)">{{.Custom}}</textarea>
	</div>
	<div class="row">
		<label>Moving average (years): <input type="number" name="window" min="0" max="10" value="{{.Window}}"></label>
		<label><input type="checkbox" name="normalize" value="on" {{if .Normalize}}checked{{end}}> % of papers per year</label>
		<button class="btn" type="submit">Plot</button>
	</div>
</form>

{{if .Error}}
<p class="error">{{.Error}}</p>
{{else if .Chart}}
<svg class="chart" width="{{.Chart.Width}}" height="{{.Chart.Height}}" viewBox="0 0 {{.Chart.Width}} {{.Chart.Height}}">
	<line x1="{{.Chart.PlotLeft}}" y1="{{.Chart.PlotBottom}}" x2="{{.Chart.PlotRight}}" y2="{{.Chart.PlotBottom}}" stroke="#bbb"/>
	<line x1="{{.Chart.PlotLeft}}" y1="{{.Chart.PlotTop}}" x2="{{.Chart.PlotLeft}}" y2="{{.Chart.PlotBottom}}" stroke="#bbb"/>
	{{range .Chart.Series}}
	<polyline points="{{.Points}}" fill="none" stroke="{{.Color}}" stroke-width="2"/>
	{{end}}
	{{range .Chart.XLabels}}
	<text x="{{.X}}" y="{{.Y}}" text-anchor="middle">{{.Text}}</text>
	{{end}}
	{{range .Chart.YLabels}}
	<text x="{{.X}}" y="{{.Y}}" text-anchor="end">{{.Text}}</text>
	{{end}}
	<text x="{{.Chart.PlotLeft}}" y="{{.Chart.PlotTop}}" text-anchor="start">{{.Chart.YAxisTitle}}</text>
</svg>
<div class="legend">
	{{range .Chart.Series}}
	<span><span class="legend-swatch" style="background: {{.Color}}"></span>{{.Term}}</span>
	{{end}}
</div>
{{else}}
<p class="empty">Select or enter at least one term to display the chart.</p>
{{end}}

{{if .Papers}}
<h2>Papers mentioning selected terms</h2>
{{if .Truncated}}<p class="muted">Showing the {{len .Papers}} most recent matches.</p>{{end}}
<table>
	<tr><th>Year</th><th>Title</th><th>Authors</th><th></th></tr>
	{{range .Papers}}
	<tr>
		<td>{{.Year}}</td>
		<td>{{.Title}}</td>
		<td>{{.Author}}</td>
		<td><a href="{{.Link}}">Read paper</a></td>
	</tr>
	{{end}}
</table>
{{end}}

{{if .Updated}}
<p class="muted">Data last updated: {{.Updated}}</p>
{{end}}
{{template "foot" .}}
{{end}}

{{define "recent"}}
{{template "head" .}}
<h1>Papers added in the last 7 days</h1>
{{if .Papers}}
<table>
	<tr><th>Date</th><th>Title</th><th>Authors</th><th></th></tr>
	{{range .Papers}}
	<tr>
		<td>{{.IssueDate.Format "2006-01-02"}}</td>
		<td>{{.Title}}</td>
		<td>{{.Author}}</td>
		<td><a href="{{.Link}}">Read paper</a></td>
	</tr>
	{{end}}
</table>
{{else}}
<p class="empty">No new papers in the last 7 days.</p>
{{end}}
{{template "foot" .}}
{{end}}
`))
