// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package querygen turns a free-text research topic into three alternative
// academic search query phrasings via a generative model.
// Implements: prd001-query-generation (R1-R4);
//
//	docs/ARCHITECTURE § Query Generation.
package querygen

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-scout/internal/failure"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// queryPromptTmpl is the prompt sent to the model for one topic. It pins the
// output contract: a bare JSON object with exactly the three variant keys,
// no explanations, no markdown fences, no extra keys (R2.1).
var queryPromptTmpl = template.Must(template.New("queries").Parse(`Given a research topic, generate 3 academic search query variants.
Return ONLY a valid JSON object in this exact format, with no explanations, no markdown fences, and no extra keys:
{
  "broad": "general academic query covering the topic widely",
  "focused": "specific query targeting core concepts",
  "method": "query emphasizing methodologies and techniques"
}
Each value must be a plain keyword-rich academic search query string.

Topic: {{.Topic}}
`))

// Backend abstracts the generative model call so tests can supply a mock.
// Generate returns the model's raw text response for one prompt.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator produces a QuerySet from a topic. One model call per invocation;
// no retries, so a bad generation stays visible to the user (R4.2).
type Generator struct {
	Backend Backend
}

// Generate asks the model for three query variants and validates the
// response against the output contract. Values are passed through verbatim:
// the exact phrasing is the model's academic judgment, not ours (R3.4).
func (g *Generator) Generate(ctx context.Context, topic string) (types.QuerySet, error) {
	if strings.TrimSpace(topic) == "" {
		return types.QuerySet{}, failure.New(failure.InvalidInput, "topic is empty")
	}

	prompt, err := renderPrompt(topic)
	if err != nil {
		return types.QuerySet{}, failure.Wrap(failure.Upstream, err, "rendering prompt")
	}

	raw, err := g.Backend.Generate(ctx, prompt)
	if err != nil {
		return types.QuerySet{}, failure.Wrap(failure.Upstream, err, "calling generative model")
	}
	if strings.TrimSpace(raw) == "" {
		return types.QuerySet{}, failure.New(failure.Upstream, "model returned an empty response")
	}

	return parseQuerySet(raw)
}

// renderPrompt executes the query prompt template for the given topic.
func renderPrompt(topic string) (string, error) {
	var buf bytes.Buffer
	if err := queryPromptTmpl.Execute(&buf, struct{ Topic string }{Topic: topic}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parseQuerySet parses the model's raw text as the query JSON object and
// validates it against the schema: exactly the keys broad, focused, method,
// each a non-empty string (R3.1-R3.3).
func parseQuerySet(raw string) (types.QuerySet, error) {
	text := stripFences(strings.TrimSpace(raw))

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return types.QuerySet{}, failure.Wrap(failure.MalformedResponse, err, "response is not a JSON object")
	}
	// JSON null unmarshals into a nil map without error; it is valid JSON
	// but not an object, so it fails as malformed, not as a missing key.
	if obj == nil {
		return types.QuerySet{}, failure.New(failure.MalformedResponse, "response is not a JSON object")
	}

	var qs types.QuerySet
	for _, v := range types.Variants {
		val, ok := obj[string(v)]
		if !ok {
			return types.QuerySet{}, failure.New(failure.SchemaViolation, "response is missing key %q", v)
		}
		s, ok := val.(string)
		if !ok {
			return types.QuerySet{}, failure.New(failure.SchemaViolation, "value for key %q is not a string", v)
		}
		if s == "" {
			return types.QuerySet{}, failure.New(failure.SchemaViolation, "value for key %q is empty", v)
		}
		switch v {
		case types.VariantBroad:
			qs.Broad = s
		case types.VariantFocused:
			qs.Focused = s
		case types.VariantMethod:
			qs.Method = s
		}
	}

	if len(obj) != len(types.Variants) {
		for key := range obj {
			if types.Variant(key) != types.VariantBroad &&
				types.Variant(key) != types.VariantFocused &&
				types.Variant(key) != types.VariantMethod {
				return types.QuerySet{}, failure.New(failure.SchemaViolation, "response has unexpected key %q", key)
			}
		}
	}

	return qs, nil
}

// stripFences removes a surrounding markdown code fence, which models emit
// despite instructions. Only the fence is forgiven; any other text around
// the JSON still fails parsing.
func stripFences(text string) string {
	if strings.HasPrefix(text, "```") {
		if _, rest, ok := strings.Cut(text, "\n"); ok {
			text = rest
		}
	}
	if strings.HasSuffix(text, "```") {
		if before, _, ok := cutLast(text, "```"); ok {
			text = before
		}
	}
	return strings.TrimSpace(text)
}

// cutLast is strings.Cut around the last occurrence of sep.
func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
