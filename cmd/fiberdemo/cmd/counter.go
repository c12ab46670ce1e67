package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/fiber/cmd/fiberdemo/internal/apps"
	"github.com/go-drift/fiber/pkg/element"
)

var (
	counterClicks int
	counterStep   int
)

func init() {
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Click a counter and watch text updates",
		Long: `Mount a counter and click its increment button. Each click is a
discrete event, so its updates render synchronously and commit as a single
text update. The final click resets the count.`,
		Args: cobra.NoArgs,
		RunE: run(runCounter),
	}
	cmd.Flags().IntVar(&counterClicks, "clicks", 3, "number of increment clicks")
	cmd.Flags().IntVar(&counterStep, "step", 1, "increment per click")
	RegisterCommand(cmd)
}

func runCounter(s *session, _ []string) error {
	s.render("mount", element.Create(apps.Counter, element.Props{"step": counterStep}))
	for i := 1; i <= counterClicks; i++ {
		var err error
		s.act(fmt.Sprintf("click +%d (#%d)", counterStep, i), func() { err = s.click("inc") })
		if err != nil {
			return err
		}
	}
	var err error
	s.act("click reset", func() { err = s.click("reset") })
	return err
}
