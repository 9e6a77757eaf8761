package card

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

// ElementID is the id of the card element inside the rendered document;
// rasterizers capture exactly this element.
const ElementID = "order-card"

const DefaultBackground = "#1f2937"

var hexColour = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type HTMLOptions struct {
	// Background must be a #rgb or #rrggbb colour.
	Background string
	// Nonce is embedded in the document so that two exports never produce
	// byte-identical pages.
	Nonce string
}

type htmlView struct {
	Card       Card
	ElementID  string
	Background template.CSS
	Nonce      string
	Images     []template.URL
	Parties    []Field
	Dates      []Field
	Specs      []Field
	Prices     []Field
	Comments   *Field
}

var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="export-nonce" content="{{.Nonce}}">
<title>{{.Card.Title}}</title>
<style>
  html, body { margin: 0; padding: 8px; font-family: "Helvetica Neue", Arial, sans-serif; }
  .card { width: 384px; border-radius: 12px; overflow: hidden; color: #f3f4f6; }
  .head { padding: 16px; background: linear-gradient(135deg, rgba(255, 255, 255, 0.04), rgba(0, 0, 0, 0.25)); text-align: center; }
  .head h3 { margin: 0; font-size: 24px; color: #fcd34d; letter-spacing: 0.05em; }
  .head p { margin: 4px 0 0; font-size: 12px; color: #9ca3af; }
  .body { padding: 16px; }
  .images { display: grid; gap: 8px; margin-bottom: 12px; }
  .images img { width: 100%; aspect-ratio: 1; object-fit: contain; background: #374151; border-radius: 8px; }
  .row { display: flex; justify-content: space-between; border-top: 1px solid #374151; padding-top: 12px; margin-top: 12px; }
  .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 12px 16px; border-top: 1px solid #374151; padding-top: 12px; margin-top: 12px; }
  .grid.two { grid-template-columns: repeat(2, 1fr); }
  .right { text-align: right; }
  .label { font-size: 11px; font-weight: 600; text-transform: uppercase; letter-spacing: 0.05em; color: rgba(253, 230, 138, 0.6); margin: 0; }
  .value { font-size: 14px; font-weight: 500; margin: 0 0 8px; }
  .emph .label { font-size: 13px; color: rgba(253, 230, 138, 0.8); }
  .emph .value { font-size: 16px; font-weight: 600; color: #f9fafb; }
  .comments { border-top: 1px solid #374151; padding-top: 12px; margin-top: 12px; white-space: pre-wrap; word-break: break-word; }
</style>
</head>
<body style="{{.Background}}">
<div id="{{.ElementID}}" class="card" style="{{.Background}}" data-mode="{{.Card.Mode}}">
  <div class="head">
    <h3>{{.Card.Title}}</h3>
    {{- if .Card.CompanyName}}<p>{{.Card.CompanyName}}</p>{{end}}
  </div>
  <div class="body">
    {{- if .Images}}
    <div class="images" style="grid-template-columns: repeat({{len .Images}}, 1fr)">
      {{- range $i, $img := .Images}}
      <img src="{{$img}}" alt="Design Preview {{$i}}">
      {{- end}}
    </div>
    {{- end}}
    <div class="row">
      <div>
        {{- range .Parties}}
        <div class="{{if .Emphasized}}emph{{end}}"><p class="label">{{.Label}}</p><p class="value">{{.Value}}</p></div>
        {{- end}}
      </div>
      <div class="right">
        {{- range .Dates}}
        <div><p class="label">{{.Label}}</p><p class="value">{{.Value}}</p></div>
        {{- end}}
      </div>
    </div>
    <div class="grid">
      {{- range .Specs}}
      <div><p class="label">{{.Label}}</p><p class="value">{{.Value}}</p></div>
      {{- end}}
    </div>
    {{- if .Prices}}
    <div class="grid two">
      {{- range .Prices}}
      <div><p class="label">{{.Label}}</p><p class="value">{{.Value}}</p></div>
      {{- end}}
    </div>
    {{- end}}
    {{- with .Comments}}
    <div class="comments"><p class="label">{{.Label}}</p><p class="value">{{.Value}}</p></div>
    {{- end}}
  </div>
</div>
</body>
</html>
`))

// HTML renders c as a standalone document. Images are embedded as data URIs,
// so the document needs no network access.
func HTML(c Card, opts HTMLOptions) ([]byte, error) {
	bg := opts.Background
	if bg == "" {
		bg = DefaultBackground
	}
	if !hexColour.MatchString(bg) {
		return nil, fmt.Errorf("invalid background colour %q", bg)
	}

	view := htmlView{
		Card:       c,
		ElementID:  ElementID,
		Background: template.CSS("background:" + bg),
		Nonce:      opts.Nonce,
		Parties:    c.Section(SectionParties),
		Dates:      c.Section(SectionDates),
		Specs:      c.Section(SectionSpecs),
		Prices:     c.Section(SectionPrices),
	}
	for _, img := range c.Images {
		// Only inline image data is trusted past html/template's URL filter.
		if !strings.HasPrefix(img, "data:image/") {
			continue
		}
		view.Images = append(view.Images, template.URL(img))
	}
	if comments := c.Section(SectionComments); len(comments) > 0 {
		view.Comments = &comments[0]
	}

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing card template: %w", err)
	}
	return buf.Bytes(), nil
}
