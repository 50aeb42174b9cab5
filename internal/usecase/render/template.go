package render

import "html/template"

var pageTemplate = template.Must(template.New("digest").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Keep Up With AI</title>
  <style>
    :root {
      --bg: #0f1117;
      --surface: #1a1d27;
      --border: #2a2d3a;
      --text: #e1e4ed;
      --text-dim: #8b8fa3;
      --accent: #6c8aff;
      --accent-dim: #4a5f99;
      --label-bg: #252838;
    }
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', system-ui, sans-serif;
      background: var(--bg);
      color: var(--text);
      line-height: 1.6;
      padding: 2rem 1rem;
      max-width: 48rem;
      margin: 0 auto;
    }
    header {
      margin-bottom: 2.5rem;
      padding-bottom: 1.5rem;
      border-bottom: 1px solid var(--border);
    }
    header h1 {
      font-size: 1.75rem;
      font-weight: 700;
      letter-spacing: -0.02em;
    }
    header .updated {
      color: var(--text-dim);
      font-size: 0.85rem;
      margin-top: 0.25rem;
    }
    header .count {
      color: var(--text-dim);
      font-size: 0.85rem;
    }
    .item {
      background: var(--surface);
      border: 1px solid var(--border);
      border-radius: 8px;
      padding: 1.25rem;
      margin-bottom: 1rem;
    }
    .item-header h2 {
      font-size: 1.05rem;
      font-weight: 600;
      line-height: 1.4;
    }
    .item-header h2 a {
      color: var(--accent);
      text-decoration: none;
    }
    .item-header h2 a:hover {
      text-decoration: underline;
    }
    .meta {
      display: flex;
      gap: 0.75rem;
      font-size: 0.8rem;
      color: var(--text-dim);
      margin-top: 0.25rem;
    }
    .label {
      display: inline-block;
      font-size: 0.7rem;
      font-weight: 600;
      text-transform: uppercase;
      letter-spacing: 0.05em;
      color: var(--accent);
      background: var(--label-bg);
      padding: 0.15rem 0.5rem;
      border-radius: 3px;
      margin-bottom: 0.35rem;
    }
    .eli5 {
      margin-top: 0.75rem;
    }
    .eli5 p {
      font-size: 0.95rem;
    }
    details {
      margin-top: 0.75rem;
    }
    details summary {
      cursor: pointer;
      font-size: 0.85rem;
      color: var(--accent-dim);
      user-select: none;
    }
    details summary:hover {
      color: var(--accent);
    }
    .expanded {
      margin-top: 0.75rem;
      display: flex;
      flex-direction: column;
      gap: 0.75rem;
    }
    .field p {
      font-size: 0.9rem;
      color: var(--text);
    }
    .unknowns p {
      color: var(--text-dim);
      font-style: italic;
    }
    .quotes {
      list-style: none;
      padding: 0;
    }
    .quotes li {
      font-size: 0.9rem;
      color: var(--text-dim);
      font-style: italic;
      padding-left: 1rem;
      border-left: 2px solid var(--border);
      margin-bottom: 0.4rem;
    }
    .empty {
      text-align: center;
      color: var(--text-dim);
      padding: 3rem 1rem;
    }
    @media (max-width: 640px) {
      body { padding: 1rem 0.75rem; }
      .item { padding: 1rem; }
    }
  </style>
</head>
<body>
  <header>
    <h1>Keep Up With AI</h1>
    <div class="updated">Last updated: {{.GeneratedAt}}</div>
    <div class="count">{{len .Items}} summaries</div>
  </header>
  <main>
{{- if .Items}}
{{- range .Items}}
    <article class="item">
      <div class="item-header">
        <h2><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a></h2>
        <div class="meta">
          <span class="source">{{.SourceName}}</span>
          <span class="date">{{.Date}}</span>
        </div>
      </div>
      <div class="eli5">
        <span class="label">ELI5</span>
        <p>{{.Summary.ELI5}}</p>
      </div>
      <details>
        <summary>More details</summary>
        <div class="expanded">
          <div class="field">
            <span class="label">ELI16</span>
            <p>{{.Summary.ELI16}}</p>
          </div>
          <div class="field">
            <span class="label">Why This Matters</span>
            <p>{{.Summary.WhyThisMatters}}</p>
          </div>
          <div class="field">
            <span class="label">What Changed</span>
            <p>{{.Summary.WhatChanged}}</p>
          </div>
{{- if .Summary.KeyQuotes}}
          <div class="field">
            <span class="label">Key Quotes</span>
            <ul class="quotes">
{{- range .Summary.KeyQuotes}}
              <li>&quot;{{.}}&quot;</li>
{{- end}}
            </ul>
          </div>
{{- end}}
          <div class="field unknowns">
            <span class="label">Confidence / Unknowns</span>
            <p>{{.Summary.ConfidenceUnknowns}}</p>
          </div>
        </div>
      </details>
    </article>
{{- end}}
{{- else}}
    <div class="empty"><p>No summaries yet. Run the pipeline to get started.</p></div>
{{- end}}
  </main>
</body>
</html>
`
