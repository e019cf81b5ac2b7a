package synth

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/agenthands/moviesearch/internal/core/model"
)

// DefaultPrompt is the synthesis template. It receives .Schema (one line per
// field) and .Query (the user's text, verbatim).
const DefaultPrompt = `You are a MongoDB query generator.

Return ONLY a valid JSON filter object.
Do not explain anything.
Do not add backticks or code fences.
Do not add text before or after the JSON.

Schema:
{{.Schema}}

Comparisons use a single-operator object. Number fields allow $eq, $ne, $gt, $gte, $lt, $lte.
Text fields allow a plain string, $eq or $ne.
Return {} when the request names no filterable field.

Examples:

Input: Action movies
Output: { "genres.name": "Action" }

Input: Movies above rating 8
Output: { "vote_average": { "$gt": 8 } }

Input: French films shorter than 100 minutes
Output: { "original_language": "fr", "runtime": { "$lt": 100 } }

User Query: {{.Query}}
`

type promptData struct {
	Schema string
	Query  string
}

// Prompt is a parsed synthesis template. Safe for concurrent use.
type Prompt struct {
	tmpl *template.Template
}

func NewPrompt(text string) (*Prompt, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultPrompt
	}
	tmpl, err := template.New("query").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	// A trial render catches unknown fields and a missing Query reference at startup.
	const marker = "\x00query\x00"
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Schema: SchemaDescription(), Query: marker}); err != nil {
		return nil, fmt.Errorf("failed to render prompt template: %w", err)
	}
	if !strings.Contains(buf.String(), marker) {
		return nil, fmt.Errorf("prompt template must reference .Query")
	}
	return &Prompt{tmpl: tmpl}, nil
}

// Render interpolates the schema and the user text.
func (p *Prompt) Render(userText string) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, promptData{
		Schema: SchemaDescription(),
		Query:  userText,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// SchemaDescription lists the filterable fields with their value kind.
func SchemaDescription() string {
	var sb strings.Builder
	for i, f := range model.Fields {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "- %s (%s)", f, f.Kind())
	}
	return sb.String()
}
