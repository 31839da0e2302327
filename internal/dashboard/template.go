package dashboard

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Market Summary</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; display: flex; color: #222; }
aside { width: 240px; padding: 1.5rem; background: #f4f5f7; min-height: 100vh; box-sizing: border-box; }
main { flex: 1; padding: 1.5rem 2rem; max-width: 860px; }
label { display: block; margin: 0.8rem 0 0.2rem; font-size: 0.85rem; font-weight: 600; }
input { width: 100%; padding: 0.4rem; box-sizing: border-box; }
button { margin-top: 1rem; padding: 0.5rem 1rem; cursor: pointer; }
.quote { border: 1px solid #ddd; border-radius: 6px; padding: 0.8rem 1rem; margin: 0.6rem 0; }
.up { color: #0a7b34; }
.down { color: #b3261e; }
.error { background: #fdecea; border: 1px solid #f5c6c3; padding: 0.6rem 1rem; border-radius: 6px; margin: 0.5rem 0; }
.summary { background: #eef4fd; border: 1px solid #c9ddf5; padding: 1rem; border-radius: 6px; white-space: pre-wrap; }
ul.headlines { padding-left: 1.2rem; }
</style>
</head>
<body>
<aside>
<h2>Market Summary</h2>
<form method="post" action="/summary">
<label for="query">News query</label>
<input id="query" name="query" value="{{.Query}}">
<label for="tickers">Tickers</label>
<input id="tickers" name="tickers" value="{{.Tickers}}">
<label for="range_days">Range (days)</label>
<input id="range_days" name="range_days" type="number" min="1" value="{{.RangeDays}}">
<button type="submit">Generate AI Market Summary</button>
</form>
</aside>
<main>
{{range .Errors}}<div class="error">{{.}}</div>{{end}}
{{if .Generated}}
<h3>AI Market Summary</h3>
<div class="summary">{{.Summary}}</div>
{{end}}
{{if .Quotes}}
<h3>Quotes</h3>
{{range .Quotes}}
<div class="quote">
<strong>{{.Ticker}}</strong> {{.Price}}
<span class="{{if .Up}}up{{else}}down{{end}}">{{.ChangePct}}</span>
<div>{{.Chart}}</div>
</div>
{{end}}
{{end}}
{{if .Headlines}}
<h3>Headlines</h3>
<ul class="headlines">
{{range .Headlines}}
<li>{{if .URL}}<a href="{{.URL}}">{{.Title}}</a>{{else}}{{.Title}}{{end}} <em>{{.Source}}</em></li>
{{end}}
</ul>
{{end}}
</main>
</body>
</html>
`
