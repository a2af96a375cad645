package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/flightform/internal/alert"
	"github.com/oakwood-commons/flightform/internal/formatter"
	"github.com/oakwood-commons/flightform/pkg/logger"
)

type checkOptions struct {
	alertFile  string
	quotesFile string
	threshold  float64
	output     string
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	o := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a price alert for a submitted search against fare quotes",
		Long: "check reads a form submission (the yaml or json the form prints) as a price\n" +
			"alert and a list of fare quotes, then reports whether the alert has expired,\n" +
			"a quote dropped below the threshold, or nothing changed. On a drop the\n" +
			"reported threshold is lowered to the quote's price.",
		Example: "  flightform -o json > search.json\n" +
			"  flightform check --alert search.json --threshold 300 --quotes quotes.json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd, root)
		},
	}
	cmd.Flags().StringVar(&o.alertFile, "alert", "", "submitted search as yaml or json ('-' for stdin)")
	cmd.Flags().StringVar(&o.quotesFile, "quotes", "", "fare quotes as a yaml or json list of {price, airline}")
	cmd.Flags().Float64Var(&o.threshold, "threshold", 0, "alert price threshold (overrides price_threshold in the alert)")
	cmd.Flags().StringVarP(&o.output, "output", "o", string(formatter.FormatYAML), "output format: yaml|json")
	_ = cmd.MarkFlagRequired("alert")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (o *checkOptions) run(cmd *cobra.Command, root *rootOptions) error {
	format, err := formatter.ParseFormat(o.output, formatter.FormatYAML, formatter.FormatJSON)
	if err != nil {
		return err
	}
	data, err := readInput(cmd.InOrStdin(), o.alertFile)
	if err != nil {
		return fmt.Errorf("read alert: %w", err)
	}
	a, err := alert.Decode(data)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threshold") {
		a.Threshold = o.threshold
	}

	var quotes []alert.Quote
	if o.quotesFile != "" {
		raw, err := readInput(cmd.InOrStdin(), o.quotesFile)
		if err != nil {
			return fmt.Errorf("read quotes: %w", err)
		}
		if quotes, err = alert.DecodeQuotes(raw); err != nil {
			return err
		}
	}

	decision, err := alert.Evaluate(a, quotes, root.run.Now())
	if err != nil {
		return err
	}
	logger.FromContext(cmd.Context()).V(1).Info("alert evaluated",
		"origin", a.Origin, "destination", a.Destination, "quotes", len(quotes), "outcome", string(decision.Outcome))

	text, err := formatter.Marshal(decision, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), text)
	return err
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
