// Package cli implements the screener terminal client commands.
package cli

import (
	"io"
	"os"

	"screener/internal/client"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:3000"

type options struct {
	apiURL  string
	noColor bool
}

// NewRootCommand creates the 'screener' command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "screener",
		Short:         "Take the diagnostic screener from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	apiURL := os.Getenv("SCREENER_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", apiURL, "screener API base URL (env SCREENER_API_URL)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newTakeCommand(opts))
	root.AddCommand(newShowCommand(opts))

	return root
}

func (o *options) client() *client.Client {
	return client.New(o.apiURL)
}

// useColor is true only for a terminal stdout with color not disabled
func (o *options) useColor(w io.Writer) bool {
	if o.noColor || color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type printer struct {
	w     io.Writer
	color bool
}

func (p printer) paint(attr color.Attribute, s string) string {
	if !p.color {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (p printer) bold(s string) string  { return p.paint(color.Bold, s) }
func (p printer) cyan(s string) string  { return p.paint(color.FgCyan, s) }
func (p printer) green(s string) string { return p.paint(color.FgGreen, s) }
func (p printer) red(s string) string   { return p.paint(color.FgRed, s) }
