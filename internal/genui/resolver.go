// Package genui turns free-text prompts into canned dashboard cards.
//
// There is no model behind it: a prompt is lower-cased and tested against a
// fixed, ordered table of keyword groups. The first group with a matching
// keyword selects the response; anything else gets the generic insights card,
// which quotes the prompt back verbatim.
package genui

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names the canned response a prompt resolved to.
type Kind string

const (
	KindCardiac    Kind = "cardiac"
	KindMedication Kind = "medication"
	KindECG        Kind = "ecg"
	KindInsights   Kind = "insights"
)

const promptPlaceholder = "{{prompt}}"

// Content is a generated card body.
type Content struct {
	Kind    Kind
	Title   string
	Content string
}

type keywordGroup struct {
	kind     Kind
	keywords []string
}

// groups is checked in order; the first hit wins.
var groups = []keywordGroup{
	{KindCardiac, []string{"cardiac", "heart"}},
	{KindMedication, []string{"medication", "drug"}},
	{KindECG, []string{"ecg", "ekg"}},
}

type response struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

//go:embed responses.yaml
var responsesYAML []byte

var responses = mustParseResponses(responsesYAML)

func mustParseResponses(data []byte) map[Kind]response {
	var f struct {
		Responses map[Kind]response `yaml:"responses"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		panic(fmt.Errorf("failed to parse genui responses: %w", err))
	}
	for _, k := range []Kind{KindCardiac, KindMedication, KindECG, KindInsights} {
		if _, ok := f.Responses[k]; !ok {
			panic(fmt.Errorf("genui responses missing %q", k))
		}
	}
	return f.Responses
}

// Classify returns the response kind for prompt without building content.
func Classify(prompt string) Kind {
	lower := strings.ToLower(prompt)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.kind
			}
		}
	}
	return KindInsights
}

// Resolve maps prompt to its canned card. It is total: every input, including
// the empty string, yields content.
func Resolve(prompt string) Content {
	kind := Classify(prompt)
	r := responses[kind]
	body := strings.TrimSpace(r.Content)
	if kind == KindInsights {
		body = strings.Replace(body, promptPlaceholder, prompt, 1)
	}
	return Content{Kind: kind, Title: r.Title, Content: body}
}
