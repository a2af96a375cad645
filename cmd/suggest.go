package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/flightform/internal/formatter"
	"github.com/oakwood-commons/flightform/internal/suggest"
	"github.com/oakwood-commons/flightform/pkg/airports"
)

type suggestOptions struct {
	output string
	limit  int
	width  int
}

func newSuggestCmd(root *rootOptions) *cobra.Command {
	o := &suggestOptions{}
	cmd := &cobra.Command{
		Use:   "suggest QUERY",
		Short: "Print the airports the form would suggest for QUERY",
		Example: "  flightform suggest york\n" +
			"  flightform suggest us --limit 10 -o yaml",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root, args[0])
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", string(formatter.FormatTable), "output format: table|json|yaml|toml")
	cmd.Flags().IntVar(&o.limit, "limit", suggest.MaxResults, fmt.Sprintf("maximum number of suggestions (at most %d)", suggest.MaxResults))
	cmd.Flags().IntVar(&o.width, "width", 0, "table width in columns; the label column is truncated to fit (0 = terminal width)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml", "toml"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (o *suggestOptions) run(cmd *cobra.Command, root *rootOptions, query string) error {
	format, err := formatter.ParseFormat(o.output, formatter.FormatTable, formatter.FormatJSON, formatter.FormatYAML, formatter.FormatTOML)
	if err != nil {
		return err
	}
	if o.limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	if o.width < 0 {
		return fmt.Errorf("--width must not be negative")
	}
	ds, err := loadDataset(cmd.Context(), root)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	matches := suggest.Match(ds.Records(), query, o.limit)
	return writeSuggestions(out, matches, format, formatter.TableOptions{
		NoColor:     root.run.NoColor,
		Width:       tableWidth(o.width, out),
		HeaderColor: root.cfg.UI.Theme.Accent,
	})
}

// tableWidth returns explicit when set, otherwise the width of w when it is a
// terminal, otherwise zero for unlimited.
func tableWidth(explicit int, w io.Writer) int {
	if explicit > 0 {
		return explicit
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	return 0
}

// loadDataset loads the configured airport source synchronously.
func loadDataset(ctx context.Context, root *rootOptions) (*airports.Dataset, error) {
	src, err := airports.ParseSource(root.run.AirportsSource)
	if err != nil {
		return nil, err
	}
	if t := root.cfg.Airports.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	ds := airports.NewDataset()
	if err := ds.Load(ctx, src); err != nil {
		return nil, err
	}
	return ds, nil
}

func writeSuggestions(w io.Writer, matches []airports.Record, format formatter.Format, table formatter.TableOptions) error {
	if matches == nil {
		matches = []airports.Record{}
	}
	switch format {
	case formatter.FormatTable:
		rows := make([][]string, 0, len(matches))
		for _, r := range matches {
			rows = append(rows, []string{r.Code, strings.TrimSpace(r.City), r.Label()})
		}
		_, err := io.WriteString(w, formatter.RenderTable([]string{"code", "city", "label"}, rows, table))
		return err
	case formatter.FormatTOML:
		text, err := formatter.Marshal(map[string][]airports.Record{"airports": matches}, format)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	default:
		text, err := formatter.Marshal(matches, format)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	}
}
