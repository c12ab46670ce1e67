package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/cmd/fiberdemo/internal/apps"
	"github.com/go-drift/fiber/pkg/element"
)

func init() {
	RegisterCommand(&cobra.Command{
		Use:   "list <items> [<items>...]",
		Short: "Reconcile a keyed list through successive orders",
		Long: `Render a keyed list once per argument and print the host mutations
each change needs. Items are comma separated, for example:

  fiberdemo list a,b,c c,a,b b,c`,
		Args: cobra.MinimumNArgs(1),
		RunE: run(runList),
	})
}

func runList(s *session, args []string) error {
	for _, arg := range args {
		items := splitItems(arg)
		s.render("["+strings.Join(items, " ")+"]", element.Create(apps.List, element.Props{"items": items}))
	}
	return nil
}

func splitItems(arg string) []string {
	var items []string
	for _, item := range strings.Split(arg, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
