package main

import (
	"fmt"
	"strings"

	"medboard/internal/modules"

	"github.com/spf13/cobra"
)

// modulesCmd lists the source list, or shows one module's card template.
var modulesCmd = &cobra.Command{
	Use:   "modules [type]",
	Short: "List the dashboard modules or show one module's card",
	Args:  cobra.MaximumNArgs(1),
	RunE:  listModules,
}

func listModules(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reg := modules.Default()
	if len(args) == 1 {
		return showModule(cmd, reg, args[0])
	}
	for _, mod := range reg.Modules() {
		fmt.Fprintf(out, "%-14s %s %-22s %s\n", mod.Type, mod.Icon, mod.Title, mod.Description)
	}
	return nil
}

func showModule(cmd *cobra.Command, reg *modules.Registry, tag string) error {
	mod, ok := reg.Module(modules.ParseType(tag))
	if !ok {
		known := make([]string, 0, len(reg.Types()))
		for _, t := range reg.Types() {
			known = append(known, string(t))
		}
		return fmt.Errorf("unknown module %q (known: %s)", tag, strings.Join(known, ", "))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n%s\n\n", mod.Icon, mod.Title, mod.Description)
	fmt.Fprintln(out, strings.TrimRight(mod.Content, "\n"))
	return nil
}
