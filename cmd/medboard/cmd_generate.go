package main

import (
	"fmt"
	"strings"
	"time"

	"medboard/cmd/medboard/ui"
	"medboard/internal/dashboard"
	"medboard/internal/sched"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// generateCmd runs one prompt through the dashboard headlessly and prints
// the card it produces.
var generateCmd = &cobra.Command{
	Use:   "generate <prompt...>",
	Short: "Generate an insight card for a prompt",
	Long: `Runs the prompt through the same generator the dashboard uses and prints
the resulting card. The simulated delay is skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: generateCard,
}

func generateCard(cmd *cobra.Command, args []string) error {
	prompt := joinArgs(args)
	raw, _ := cmd.Flags().GetBool("raw")

	opts := dashboard.DefaultOptions()
	theme := "auto"
	if ws, err := resolveWorkspace(); err == nil {
		if cfg, err := loadConfig(ws); err == nil {
			opts = dashboard.OptionsFromConfig(cfg)
			theme = cfg.UI.Theme
		} else {
			logger.Debug("using default options", zap.Error(err))
		}
	}

	clock := sched.NewManual(time.Now())
	ctrl := dashboard.New(dashboard.Deps{Scheduler: clock}, opts)
	defer ctrl.Close()

	if err := ctrl.SubmitPrompt(prompt); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	clock.Advance(opts.GenerationDelay)

	cards := ctrl.Snapshot().Cards
	if len(cards) == 0 {
		return fmt.Errorf("generate: no card produced for %q", prompt)
	}
	card := cards[0]
	logger.Debug("generated card", zap.String("title", card.Title), zap.String("prompt", prompt))

	out := cmd.OutOrStdout()
	if raw {
		fmt.Fprintf(out, "# %s\n\n%s", card.Title, card.Content)
		return nil
	}
	md := ui.NewMarkdownRenderer(ui.DetectTheme(theme), nil)
	fmt.Fprint(out, md.Render("# "+card.Title+"\n\n"+card.Content, 80))
	return nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
