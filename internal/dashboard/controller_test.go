package dashboard

import (
	"errors"
	"testing"
	"time"

	"medboard/internal/genui"
	"medboard/internal/metrics"
	"medboard/internal/modules"
	"medboard/internal/notify"
	"medboard/internal/prefs"
	"medboard/internal/sched"
	"medboard/internal/viewmode"
	"medboard/internal/workspace"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records writes on top of a MemoryStore.
type countingStore struct {
	*prefs.MemoryStore
	sets []string
}

func (s *countingStore) SetItem(key, value string) error {
	s.sets = append(s.sets, value)
	return s.MemoryStore.SetItem(key, value)
}

type fakeViewport struct {
	offsets  map[string]int
	scrolled []string
}

func (v *fakeViewport) CardOffset(id string) (int, bool) {
	row, ok := v.offsets[id]
	return row, ok
}

func (v *fakeViewport) ScrollToCard(id string) { v.scrolled = append(v.scrolled, id) }

type harness struct {
	c       *Controller
	clock   *sched.Manual
	store   *countingStore
	metrics *metrics.Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := sched.NewManual(time.Date(2024, 10, 2, 9, 0, 0, 0, time.UTC))
	store := &countingStore{MemoryStore: prefs.NewMemoryStore()}
	m := metrics.New()
	c := New(Deps{
		Scheduler:   clock,
		Preferences: prefs.NewViewModePreference(store, nil),
		Metrics:     m,
	}, DefaultOptions())
	t.Cleanup(c.Close)
	return &harness{c: c, clock: clock, store: store, metrics: m}
}

func (h *harness) add(t *testing.T, typ modules.Type, index int) *workspace.Card {
	t.Helper()
	card, err := h.c.AddModule(typ, index)
	require.NoError(t, err)
	return card
}

func toastMessages(s Snapshot) []string {
	var out []string
	for _, n := range s.Toasts {
		out = append(out, n.Message)
	}
	return out
}

func TestInitialState(t *testing.T) {
	h := newHarness(t)
	s := h.c.Snapshot()

	assert.Equal(t, viewmode.PreVisit, s.Mode)
	assert.Empty(t, s.Cards)
	assert.True(t, s.Dropzone)
	assert.False(t, s.Overlay)
	assert.Empty(t, s.Toasts)
	assert.Equal(t, 28, s.Layout.LeftWidth)
	assert.Equal(t, "0 of 5 completed", s.ChecklistText)
}

func TestAddModule_Labs(t *testing.T) {
	h := newHarness(t)

	card := h.add(t, modules.Labs, 0)

	s := h.c.Snapshot()
	require.Len(t, s.Cards, 1)
	assert.Equal(t, card.ID, s.Cards[0].ID)
	assert.Equal(t, "Laboratory Results", s.Cards[0].Title)
	assert.True(t, s.Cards[0].Expanded)
	assert.False(t, s.Dropzone)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.WorkspaceCards))
}

func TestAddModule_UnknownType(t *testing.T) {
	h := newHarness(t)
	card := h.add(t, modules.Type("vitals"), 0)
	assert.Equal(t, "New Module", card.Title)
	assert.Equal(t, "Content loading...", card.Content)
}

func TestDrag(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.c.Dispatch(BeginDrag{}))
	assert.True(t, h.c.Snapshot().DragActive)
	require.NoError(t, h.c.Dispatch(CancelDrag{}))
	assert.False(t, h.c.Snapshot().DragActive)

	require.NoError(t, h.c.Dispatch(BeginDrag{}))
	require.NoError(t, h.c.Dispatch(AddModule{Type: modules.SOAP, Index: 0}))
	s := h.c.Snapshot()
	assert.False(t, s.DragActive)
	assert.Len(t, s.Cards, 1)
}

func TestRemoveCard_RestoresDropzone(t *testing.T) {
	h := newHarness(t)
	card := h.add(t, modules.Labs, 0)

	require.NoError(t, h.c.RemoveCard(card.ID))
	assert.False(t, h.c.Snapshot().Dropzone, "card still animating out")

	h.clock.Advance(300 * time.Millisecond)
	s := h.c.Snapshot()
	assert.Empty(t, s.Cards)
	assert.True(t, s.Dropzone)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.CardsRemoved))
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.WorkspaceCards))
}

func TestSubmitPrompt_ECG(t *testing.T) {
	h := newHarness(t)
	existing := h.add(t, modules.Labs, 0)

	h.c.SetPrompt("Tell me about ECG results")
	require.NoError(t, h.c.Dispatch(SubmitPrompt{}))

	s := h.c.Snapshot()
	assert.True(t, s.Overlay)
	assert.Len(t, s.Cards, 1)

	h.clock.Advance(1499 * time.Millisecond)
	assert.True(t, h.c.Snapshot().Overlay)

	h.clock.Advance(time.Millisecond)
	s = h.c.Snapshot()
	assert.False(t, s.Overlay)
	assert.Empty(t, s.Prompt)
	require.Len(t, s.Cards, 2)
	assert.Equal(t, "ECG Analysis", s.Cards[0].Title)
	assert.Equal(t, existing.ID, s.Cards[1].ID)
	assert.Equal(t, []string{MsgDashboardUpdated}, toastMessages(s))
	assert.Equal(t, notify.Success, s.Toasts[0].Kind)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Generations.WithLabelValues("ecg")))
}

func TestSubmitPrompt_Rejections(t *testing.T) {
	h := newHarness(t)

	err := h.c.Dispatch(SubmitPrompt{Text: "   "})
	assert.Error(t, err)
	assert.False(t, h.c.Overlay())

	require.NoError(t, h.c.SubmitPrompt("heart"))
	assert.Error(t, h.c.SubmitPrompt("drug"))

	h.c.SetPrompt("ignored while generating")
	assert.Empty(t, h.c.Prompt())

	h.clock.Advance(2 * time.Second)
	s := h.c.Snapshot()
	require.Len(t, s.Cards, 1)
	assert.Equal(t, "Cardiac Risk Assessment", s.Cards[0].Title)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GenerationRejected.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.GenerationRejected.WithLabelValues("busy")))
}

func TestCancelGeneration(t *testing.T) {
	h := newHarness(t)
	h.c.SetPrompt("heart")
	require.NoError(t, h.c.SubmitPrompt(""))

	require.NoError(t, h.c.Dispatch(CancelGeneration{}))
	s := h.c.Snapshot()
	assert.False(t, s.Overlay)
	assert.Empty(t, s.Prompt)

	h.clock.Advance(2 * time.Second)
	assert.Empty(t, h.c.Snapshot().Cards)
	assert.True(t, h.c.Snapshot().Dropzone)
}

func TestSwitchMode_SameModeIsSilent(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.c.SwitchMode(viewmode.PreVisit))
	h.clock.Advance(time.Second)

	assert.Empty(t, h.c.Snapshot().Toasts)
	assert.Empty(t, h.store.sets)
}

func TestSwitchMode_VisitThenImmediatePreVisit(t *testing.T) {
	h := newHarness(t)
	card := h.add(t, modules.SOAP, 0)

	require.True(t, h.c.SwitchMode(viewmode.Visit))
	assert.False(t, h.c.SwitchMode(viewmode.PreVisit))
	h.clock.Advance(time.Second)

	s := h.c.Snapshot()
	assert.Equal(t, viewmode.Visit, s.Mode)
	assert.False(t, s.Transitioning)
	assert.Equal(t, []string{"Switched to Visit Mode"}, toastMessages(s))
	assert.Equal(t, []string{"visit"}, h.store.sets)
	assert.False(t, s.Cards[0].Expanded, "cards collapse entering visit")
	assert.Equal(t, card.ID, s.Cards[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.ModeDropped))
}

func TestSwitchMode_FailedSaveIsNotCounted(t *testing.T) {
	h := newHarness(t)
	h.store.SetErr = errors.New("quota exceeded")

	require.True(t, h.c.SwitchMode(viewmode.Visit))
	h.clock.Advance(time.Second)

	assert.Equal(t, viewmode.Visit, h.c.Snapshot().Mode)
	assert.Equal(t, 0.0, testutil.ToFloat64(h.metrics.PreferenceWrites.WithLabelValues("visit")))

	h.store.SetErr = nil
	require.True(t, h.c.SwitchMode(viewmode.PreVisit))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.PreferenceWrites.WithLabelValues("pre-visit")))
}

func TestSwitchMode_Announcement(t *testing.T) {
	h := newHarness(t)

	require.True(t, h.c.ToggleMode())
	assert.Empty(t, h.c.Snapshot().Announcements, "announced when the transition settles")

	h.clock.Advance(600 * time.Millisecond)
	assert.Equal(t, []string{"Dashboard view changed to Visit mode"}, h.c.Snapshot().Announcements)

	h.clock.Advance(time.Second)
	assert.Empty(t, h.c.Snapshot().Announcements)

	require.True(t, h.c.ToggleMode())
	h.clock.Advance(600 * time.Millisecond)
	s := h.c.Snapshot()
	assert.Equal(t, []string{"Dashboard view changed to Pre-Visit mode"}, s.Announcements)
	assert.Contains(t, toastMessages(s), "Switched to Pre-Visit Mode")
	assert.Equal(t, []string{"visit", "pre-visit"}, h.store.sets)
}

func TestTogglePanel(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.c.TogglePanel(), "no-op in pre-visit")
	assert.Equal(t, viewmode.Collapsed, h.c.Snapshot().Panel)

	require.True(t, h.c.SwitchMode(viewmode.Visit))
	h.clock.Advance(time.Second)
	assert.Equal(t, 6, h.c.Snapshot().Layout.LeftWidth)

	require.True(t, h.c.TogglePanel())
	h.clock.Advance(100 * time.Millisecond)
	mid := h.c.Snapshot().Layout.LeftWidth
	assert.Greater(t, mid, 6)
	assert.Less(t, mid, 36)

	h.clock.Advance(time.Second)
	s := h.c.Snapshot()
	assert.Equal(t, viewmode.Expanded, s.Panel)
	assert.Equal(t, 36, s.Layout.LeftWidth)
}

func TestTogglePanel_RestartCancelsRunningAnimation(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.c.SwitchMode(viewmode.Visit))
	h.clock.Advance(time.Second)

	require.True(t, h.c.TogglePanel())
	h.clock.Advance(100 * time.Millisecond)
	require.True(t, h.c.TogglePanel())
	h.clock.Advance(time.Second)

	assert.Equal(t, 6, h.c.Snapshot().Layout.LeftWidth)
}

func TestResize_Debounced(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.c.SwitchMode(viewmode.Visit))
	h.clock.Advance(time.Second)

	h.c.Resize(100, 40)
	h.clock.Advance(100 * time.Millisecond)
	require.NoError(t, h.c.Dispatch(Resize{Width: 150, Height: 40}))

	s := h.c.Snapshot()
	assert.Equal(t, 150, s.Width)
	assert.Equal(t, 40, s.Layout.RightWidth, "tier not recomputed before debounce settles")

	h.clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 36, h.c.Snapshot().Layout.RightWidth)
}

func TestToggleCard_ScrollsCollapsedCardIntoView(t *testing.T) {
	h := newHarness(t)
	vp := &fakeViewport{offsets: map[string]int{}}
	h.c.SetViewport(vp)

	above := h.add(t, modules.Labs, 0)
	below := h.add(t, modules.SOAP, 1)
	vp.offsets[above.ID] = -4
	vp.offsets[below.ID] = 12

	require.NoError(t, h.c.ToggleCard(above.ID))
	require.NoError(t, h.c.ToggleCard(below.ID))
	require.NoError(t, h.c.ToggleCard(above.ID)) // expanding never scrolls

	assert.Equal(t, []string{above.ID}, vp.scrolled)
}

func TestCardGuards(t *testing.T) {
	h := newHarness(t)
	card := h.add(t, modules.Labs, 0)
	require.NoError(t, h.c.RemoveCard(card.ID))

	assert.Error(t, h.c.Dispatch(RemoveCard{ID: card.ID}))
	assert.Error(t, h.c.Dispatch(ToggleCard{ID: card.ID}))
	assert.Error(t, h.c.Dispatch(ToggleCard{ID: "missing"}))
}

func TestStart_RestoresSavedModeWithoutPersisting(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.MemoryStore.SetItem(prefs.ViewModeKey, "visit"))

	require.NoError(t, h.c.Dispatch(Start{}))
	h.clock.Advance(time.Second)

	assert.Equal(t, viewmode.Visit, h.c.Mode())
	assert.Empty(t, h.store.sets)

	h.c.Start()
	assert.Empty(t, h.store.sets, "start runs once")
}

func TestStart_IgnoresInvalidSavedMode(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.MemoryStore.SetItem(prefs.ViewModeKey, "post-visit"))

	h.c.Start()
	h.clock.Advance(time.Second)

	assert.Equal(t, viewmode.PreVisit, h.c.Mode())
	assert.Empty(t, h.c.Snapshot().Toasts)
}

func TestInteractiveElements(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.c.Dispatch(TriggerAction{Label: " Order Labs "}))
	require.NoError(t, h.c.Dispatch(OpenDiagnosis{Name: "Hypertension"}))
	require.NoError(t, h.c.Dispatch(OpenNotifications{}))

	s := h.c.Snapshot()
	want := []string{
		"Action initiated: Order Labs",
		"Opening details for: Hypertension",
		"You have 3 new notifications",
	}
	if diff := cmp.Diff(want, toastMessages(s)); diff != "" {
		t.Errorf("toasts mismatch (-want +got):\n%s", diff)
	}
	for _, n := range s.Toasts {
		assert.Equal(t, notify.Info, n.Kind)
	}

	h.clock.Advance(3300 * time.Millisecond)
	assert.Empty(t, h.c.Snapshot().Toasts)
}

func TestChecklist(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.c.Dispatch(ToggleChecklistItem{Index: 0}))
	require.NoError(t, h.c.Dispatch(ToggleChecklistItem{Index: 3}))
	s := h.c.Snapshot()
	assert.Equal(t, "2 of 5 completed", s.ChecklistText)
	assert.Equal(t, 40, s.ChecklistPercent)

	assert.Error(t, h.c.Dispatch(ToggleChecklistItem{Index: 9}))
}

func TestApplyOptions(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.c.SwitchMode(viewmode.Visit))
	h.clock.Advance(time.Second)

	opts := DefaultOptions()
	opts.Layout.CollapsedLeft = 8
	h.c.ApplyOptions(opts)
	h.clock.Advance(time.Second)

	assert.Equal(t, 8, h.c.Snapshot().Layout.LeftWidth)
}

func TestClose_StopsEverything(t *testing.T) {
	h := newHarness(t)
	h.add(t, modules.Labs, 0)
	require.NoError(t, h.c.SubmitPrompt("heart"))
	require.True(t, h.c.SwitchMode(viewmode.Visit))
	h.c.Resize(120, 40)
	h.c.TriggerAction("x")

	require.NoError(t, h.c.Dispatch(Close{}))
	assert.False(t, h.c.Overlay())
	assert.Zero(t, h.clock.Pending())
	assert.Empty(t, h.c.Snapshot().Toasts)
}

func TestWorkspaceLockedWhileGenerating(t *testing.T) {
	h := newHarness(t)
	card := h.add(t, modules.Labs, 0)
	require.NoError(t, h.c.SubmitPrompt("ecg"))

	assert.ErrorIs(t, h.c.Dispatch(RemoveCard{ID: card.ID}), genui.ErrBusy)
	assert.ErrorIs(t, h.c.Dispatch(ToggleCard{ID: card.ID}), genui.ErrBusy)

	require.NoError(t, h.c.Dispatch(BeginDrag{}))
	assert.ErrorIs(t, h.c.Dispatch(AddModule{Type: modules.SOAP, Index: 0}), genui.ErrBusy)
	assert.False(t, h.c.Snapshot().DragActive)

	h.clock.Advance(400 * time.Millisecond)
	s := h.c.Snapshot()
	require.Len(t, s.Cards, 1)
	assert.Equal(t, workspace.StatePresent, s.Cards[0].State)
	assert.True(t, s.Cards[0].Expanded)

	h.clock.Advance(1500 * time.Millisecond)
	require.Len(t, h.c.Snapshot().Cards, 2)
	require.NoError(t, h.c.RemoveCard(card.ID))
}

type unknownCommand struct{}

func (unknownCommand) command() {}

func TestDispatch_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	assert.Error(t, h.c.Dispatch(unknownCommand{}))
}
