package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/cmd/fiberdemo/internal/apps"
	"github.com/go-drift/fiber/pkg/element"
)

func init() {
	RegisterCommand(&cobra.Command{
		Use:   "effects",
		Short: "Show the order passive effects run in",
		Long: `Mount three components with effects, relabel one, remove one and
unmount the rest. Within a commit every cleanup runs before any new effect,
and cleanups of removed components run first.`,
		Args: cobra.NoArgs,
		RunE: run(runEffects),
	})
}

func runEffects(s *session, _ []string) error {
	log := func(line string) { fmt.Fprintf(s.out, "  effect: %s\n", line) }
	item := func(name, label string) *element.Element {
		return element.Create(apps.Lifecycle, element.Props{"key": name, "name": name, "label": label, "log": log})
	}

	s.render("mount a, b, c", element.Frag(item("a", "v1"), item("b", "v1"), item("c", "v1")))
	s.render("relabel c, remove a", element.Frag(item("b", "v1"), item("c", "v2")))
	s.act("unmount", s.root.Unmount)
	return nil
}
