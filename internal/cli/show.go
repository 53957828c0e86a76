package cli

import (
	"fmt"

	"screener/internal/model"

	"github.com/spf13/cobra"
)

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the screener outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screener, err := opts.client().FetchScreener(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch screener: %w", err)
			}
			out := cmd.OutOrStdout()
			printOutline(printer{w: out, color: opts.useColor(out)}, screener)
			return nil
		},
	}
}

func printOutline(p printer, s *model.Screener) {
	fmt.Fprintln(p.w, p.bold(title(s)))
	if s.Disorder != "" {
		fmt.Fprintf(p.w, "Disorder: %s\n", s.Disorder)
	}
	fmt.Fprintf(p.w, "Questions: %d\n", s.QuestionCount())

	for i, sec := range s.Content.Sections {
		fmt.Fprintf(p.w, "\n%s %s\n", p.cyan(fmt.Sprintf("Section %d:", i+1)), sec.Title)
		for _, opt := range sec.Answers {
			fmt.Fprintf(p.w, "  [%d] %s\n", opt.Value, opt.Title)
		}
		for _, q := range sec.Questions {
			fmt.Fprintf(p.w, "  - %s (%s)\n", q.Title, q.QuestionID)
		}
	}
}

func title(s *model.Screener) string {
	switch {
	case s.FullName != "":
		return s.FullName
	case s.Content.DisplayName != "":
		return s.Content.DisplayName
	default:
		return s.Name
	}
}
