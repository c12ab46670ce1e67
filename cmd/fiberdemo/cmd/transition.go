package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/cmd/fiberdemo/internal/apps"
	"github.com/go-drift/fiber/pkg/element"
)

var transitionCost time.Duration

var searchItems = []string{"banana", "cherry", "elderberry", "mango", "orange", "pear", "tangerine"}

func init() {
	cmd := &cobra.Command{
		Use:   "transition",
		Short: "Filter a list in a transition and step through the slices",
		Long: `Mount a searchable list, then pick a filter. The click commits the
pending state at once while the filtered results render as a transition in
time slices. Each scheduler step is printed until the transition commits.`,
		Args: cobra.NoArgs,
		RunE: run(runTransition),
	}
	cmd.Flags().DurationVar(&transitionCost, "row-cost", 2*time.Millisecond, "simulated render time per result row")
	RegisterCommand(cmd)
}

func runTransition(s *session, _ []string) error {
	s.render("mount", element.Create(apps.Search, element.Props{
		"items": searchItems,
		"work":  s.work(transitionCost),
	}))

	s.heading("click filter \"an\"")
	if err := s.click("an"); err != nil {
		return err
	}
	for i := 1; s.sched.HasPendingWork(); i++ {
		s.step(fmt.Sprintf("step %d", i))
	}
	return nil
}
