package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"screener/internal/client"
	"screener/internal/flow"
	"screener/internal/model"

	"github.com/spf13/cobra"
)

var errInputClosed = errors.New("input closed before the screener was finished")

func newTakeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "take",
		Short: "Answer the screener and see recommended assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s := &session{
				api: opts.client(),
				in:  bufio.NewReader(cmd.InOrStdin()),
				p:   printer{w: out, color: opts.useColor(out)},
			}
			return s.run(cmd.Context())
		},
	}
}

type session struct {
	api *client.Client
	in  *bufio.Reader
	p   printer
}

func (s *session) run(ctx context.Context) error {
	f := flow.New()

	screener, err := s.api.FetchScreener(ctx)
	if err != nil {
		_ = f.Fail(err)
		fmt.Fprintln(s.p.w, s.p.red("Failed to load the screener. Please try again later."))
		return fmt.Errorf("fetch screener: %w", err)
	}
	if err := f.Loaded(screener); err != nil {
		return err
	}

	for {
		switch f.State() {
		case flow.StatePreview:
			if err := s.preview(f); err != nil {
				return err
			}

		case flow.StateInProgress:
			if err := s.ask(f); err != nil {
				return err
			}

		case flow.StateSubmitting:
			if err := s.submit(ctx, f); err != nil {
				return err
			}

		case flow.StateResults:
			again, err := s.results(f)
			if err != nil || !again {
				return err
			}
			if err := f.Reset(); err != nil {
				return err
			}

		case flow.StateError:
			return f.Err()

		default:
			return fmt.Errorf("unexpected state %s", f.State())
		}
	}
}

func (s *session) preview(f *flow.Flow) error {
	sc := f.Screener()
	fmt.Fprintln(s.p.w, s.p.bold(title(sc)))
	fmt.Fprintf(s.p.w, "%d questions. Press Enter to begin.\n", sc.QuestionCount())
	if _, err := s.readLine(); err != nil {
		return err
	}
	return f.Start()
}

func (s *session) ask(f *flow.Flow) error {
	sec, q, err := f.Current()
	if err != nil {
		return err
	}

	fmt.Fprintf(s.p.w, "\n%s\n", s.p.cyan(f.Progress().String()))
	fmt.Fprintln(s.p.w, sec.Title)
	fmt.Fprintln(s.p.w, s.p.bold(q.Title))
	for i, opt := range sec.Answers {
		fmt.Fprintf(s.p.w, "  %d) %s\n", i+1, opt.Title)
	}

	for {
		fmt.Fprint(s.p.w, "> ")
		line, err := s.readLine()
		if err != nil {
			return err
		}
		value, ok := pickOption(sec, line)
		if !ok {
			if len(sec.Answers) == 0 {
				fmt.Fprintln(s.p.w, "Enter a number.")
			} else {
				fmt.Fprintf(s.p.w, "Enter a number between 1 and %d.\n", len(sec.Answers))
			}
			continue
		}
		return f.Answer(value)
	}
}

func (s *session) submit(ctx context.Context, f *flow.Flow) error {
	answers, err := f.Submission()
	if err != nil {
		return err
	}

	result, err := s.api.SubmitAnswers(ctx, answers)
	if err != nil {
		_ = f.Fail(err)
		fmt.Fprintln(s.p.w, s.p.red("Failed to submit your answers. Please try again."))
		return fmt.Errorf("submit answers: %w", err)
	}
	return f.Completed(result.Results)
}

func (s *session) results(f *flow.Flow) (bool, error) {
	results := f.Results()
	fmt.Fprintf(s.p.w, "\n%s\n", s.p.bold("Results"))
	if len(results) == 0 {
		fmt.Fprintln(s.p.w, "No follow-up assessments are recommended.")
	} else {
		fmt.Fprintln(s.p.w, "Recommended follow-up assessments:")
		for _, r := range results {
			fmt.Fprintf(s.p.w, "  %s\n", s.p.green(r))
		}
	}

	fmt.Fprint(s.p.w, "\nTake the screener again? [y/N] ")
	line, err := s.readLine()
	if errors.Is(err, errInputClosed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (s *session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err == io.EOF && line != "" {
		return strings.TrimSpace(line), nil
	}
	if err == io.EOF {
		return "", errInputClosed
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// pickOption maps a 1-based menu choice to the option's value
func pickOption(sec *model.Section, line string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false
	}
	if len(sec.Answers) == 0 {
		return n, true
	}
	if n < 1 || n > len(sec.Answers) {
		return 0, false
	}
	return sec.Answers[n-1].Value, true
}
