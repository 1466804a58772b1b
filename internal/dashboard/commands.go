package dashboard

import (
	"fmt"

	"medboard/internal/modules"
	"medboard/internal/viewmode"
)

// Command is a user or host event routed through Dispatch.
type Command interface {
	command()
}

type (
	// Start loads the saved view mode. Sent once when the host is ready.
	Start struct{}
	// Close stops every pending timer.
	Close struct{}

	AddModule struct {
		Type  modules.Type
		Index int
	}
	BeginDrag  struct{}
	CancelDrag struct{}

	SetPrompt    struct{ Text string }
	SubmitPrompt struct{ Text string }
	// CancelGeneration aborts the in-flight prompt, if any.
	CancelGeneration struct{}

	RemoveCard struct{ ID string }
	ToggleCard struct{ ID string }

	SwitchMode  struct{ Mode viewmode.Mode }
	ToggleMode  struct{}
	TogglePanel struct{}
	Resize      struct{ Width, Height int }

	ToggleChecklistItem struct{ Index int }
	TriggerAction       struct{ Label string }
	OpenDiagnosis       struct{ Name string }
	OpenNotifications   struct{}
)

func (Start) command()               {}
func (Close) command()               {}
func (AddModule) command()           {}
func (BeginDrag) command()           {}
func (CancelDrag) command()          {}
func (SetPrompt) command()           {}
func (SubmitPrompt) command()        {}
func (CancelGeneration) command()    {}
func (RemoveCard) command()          {}
func (ToggleCard) command()          {}
func (SwitchMode) command()          {}
func (ToggleMode) command()          {}
func (TogglePanel) command()         {}
func (Resize) command()              {}
func (ToggleChecklistItem) command() {}
func (TriggerAction) command()       {}
func (OpenDiagnosis) command()       {}
func (OpenNotifications) command()   {}

// Dispatch routes cmd to its handler. Guarded no-ops (busy generator, card
// edits under the generation overlay, card already leaving, dropped mode
// request) come back as sentinel errors or nil;
// none of them leave the controller in a different state.
func (c *Controller) Dispatch(cmd Command) error {
	switch cmd := cmd.(type) {
	case Start:
		c.Start()
	case Close:
		c.Close()
	case AddModule:
		_, err := c.AddModule(cmd.Type, cmd.Index)
		return err
	case BeginDrag:
		c.BeginDrag()
	case CancelDrag:
		c.CancelDrag()
	case SetPrompt:
		c.SetPrompt(cmd.Text)
	case SubmitPrompt:
		return c.SubmitPrompt(cmd.Text)
	case CancelGeneration:
		c.CancelGeneration()
	case RemoveCard:
		return c.RemoveCard(cmd.ID)
	case ToggleCard:
		return c.ToggleCard(cmd.ID)
	case SwitchMode:
		c.SwitchMode(cmd.Mode)
	case ToggleMode:
		c.ToggleMode()
	case TogglePanel:
		c.TogglePanel()
	case Resize:
		c.Resize(cmd.Width, cmd.Height)
	case ToggleChecklistItem:
		return c.ToggleChecklistItem(cmd.Index)
	case TriggerAction:
		c.TriggerAction(cmd.Label)
	case OpenDiagnosis:
		c.OpenDiagnosis(cmd.Name)
	case OpenNotifications:
		c.OpenNotifications()
	default:
		return fmt.Errorf("dashboard: unknown command %T", cmd)
	}
	return nil
}
