package genui

import (
	"strings"
	"testing"
	"time"

	"medboard/internal/sched"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KeywordGroups(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		kind   Kind
		title  string
	}{
		{"cardiac", "Assess cardiac risk", KindCardiac, "Cardiac Risk Assessment"},
		{"heart upper", "HEART score please", KindCardiac, "Cardiac Risk Assessment"},
		{"heart inside word", "heartburn history", KindCardiac, "Cardiac Risk Assessment"},
		{"medication", "Review Medication list", KindMedication, "Medication Analysis"},
		{"drug", "any drug interactions?", KindMedication, "Medication Analysis"},
		{"ecg", "Tell me about ECG results", KindECG, "ECG Analysis"},
		{"ekg", "latest eKg", KindECG, "ECG Analysis"},
		{"fallback", "summarize the visit", KindInsights, "AI-Generated Insights"},
		{"empty", "", KindInsights, "AI-Generated Insights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.prompt)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.title, got.Title)
			assert.NotEmpty(t, got.Content)
		})
	}
}

func TestResolve_CardiacWinsOverLowerGroups(t *testing.T) {
	for _, p := range []string{
		"drug effects on the heart",
		"ECG and cardiac enzymes",
		"medication, ekg, HEART",
	} {
		assert.Equal(t, KindCardiac, Resolve(p).Kind, p)
	}
	assert.Equal(t, KindMedication, Resolve("drug list with ECG").Kind)
}

func TestResolve_InsightsEchoesPromptVerbatim(t *testing.T) {
	prompt := `What's Next For Mr. Doe? "Plan" {{prompt}}`
	got := Resolve(prompt)

	require.Equal(t, KindInsights, got.Kind)
	assert.Contains(t, got.Content, `Analysis for: "`+prompt+`"`)
	assert.NotContains(t, got.Content, strings.ToLower(prompt))
}

func TestGenerator_CompletesAfterDelay(t *testing.T) {
	m := sched.NewManual(time.Unix(0, 0))
	g := NewGenerator(m, DefaultDelay, nil)

	var out *Outcome
	task, err := g.Start("  Tell me about ECG results ", func(o Outcome) { out = &o })
	require.NoError(t, err)
	assert.Equal(t, "Tell me about ECG results", task.Prompt)
	assert.True(t, g.Busy())

	m.Advance(DefaultDelay - time.Millisecond)
	assert.Nil(t, out)

	m.Advance(time.Millisecond)
	require.NotNil(t, out)
	assert.False(t, out.Cancelled)
	assert.Equal(t, "ECG Analysis", out.Content.Title)
	assert.False(t, g.Busy())
}

func TestGenerator_RejectsBlankAndOverlapping(t *testing.T) {
	m := sched.NewManual(time.Unix(0, 0))
	g := NewGenerator(m, DefaultDelay, nil)

	_, err := g.Start("   \t", func(Outcome) { t.Fatal("blank prompt must not complete") })
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	calls := 0
	_, err = g.Start("heart", func(Outcome) { calls++ })
	require.NoError(t, err)

	_, err = g.Start("drug", func(Outcome) { calls += 10 })
	assert.ErrorIs(t, err, ErrBusy)

	m.Advance(2 * DefaultDelay)
	assert.Equal(t, 1, calls)
}

func TestGenerator_Cancel(t *testing.T) {
	m := sched.NewManual(time.Unix(0, 0))
	g := NewGenerator(m, DefaultDelay, nil)

	var outs []Outcome
	_, err := g.Start("heart", func(o Outcome) { outs = append(outs, o) })
	require.NoError(t, err)

	assert.True(t, g.Cancel())
	assert.False(t, g.Cancel())
	m.Advance(2 * DefaultDelay)

	require.Len(t, outs, 1)
	assert.True(t, outs[0].Cancelled)
	assert.False(t, g.Busy())

	_, err = g.Start("drug", func(o Outcome) { outs = append(outs, o) })
	assert.NoError(t, err, "generator should accept work after cancel")
}
