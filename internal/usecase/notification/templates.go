package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const anonymousContact = "Anonymous user - check portal"

// view is the data rendered into both message bodies.
type view struct {
	Kind              string
	Title             string
	MatchTitle        string
	MatchCategory     string
	MatchLocation     string
	Contact           string
	SimilarityPercent int
	PortalURL         string
}

const htmlBody = `<html>
<body>
    <h2>Great news!</h2>
    <p>We found a potential match for your {{.Kind}} item: <strong>{{.Title}}</strong></p>
    <p><strong>Matched Item:</strong> {{.MatchTitle}}</p>
    <p><strong>Category:</strong> {{.MatchCategory}}</p>
    <p><strong>Location:</strong> {{.MatchLocation}}</p>
    <p><strong>Contact:</strong> {{.Contact}}</p>
    <p><strong>Similarity:</strong> {{.SimilarityPercent}}%</p>
    <p>Visit the {{if .PortalURL}}<a href="{{.PortalURL}}">LostAF portal</a>{{else}}LostAF portal{{end}} to view details and contact the person.</p>
</body>
</html>
`

const textBody = `Great news!

We found a potential match for your {{.Kind}} item: {{.Title}}

Matched Item: {{.MatchTitle}}
Category: {{.MatchCategory}}
Location: {{.MatchLocation}}
Contact: {{.Contact}}
Similarity: {{.SimilarityPercent}}%

Visit the LostAF portal{{if .PortalURL}} ({{.PortalURL}}){{end}} to view details and contact the person.
`

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("match.html").Parse(htmlBody))
	textTmpl = texttemplate.Must(texttemplate.New("match.txt").Parse(textBody))
)

func subject(kind string) string {
	return fmt.Sprintf("Potential match found for your %s item!", kind)
}

func render(v view) (text, html string, err error) {
	var tb, hb bytes.Buffer
	if err := textTmpl.Execute(&tb, v); err != nil {
		return "", "", fmt.Errorf("render text: %w", err)
	}
	if err := htmlTmpl.Execute(&hb, v); err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	return tb.String(), hb.String(), nil
}
