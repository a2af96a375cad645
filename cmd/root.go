// Package cmd implements the flightform command line.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/flightform/internal/config"
	"github.com/oakwood-commons/flightform/internal/formatter"
	"github.com/oakwood-commons/flightform/internal/ui"
	"github.com/oakwood-commons/flightform/pkg/airports"
	"github.com/oakwood-commons/flightform/pkg/logger"
	"github.com/oakwood-commons/flightform/pkg/settings"
)

// rootOptions holds every flag of the command tree.
type rootOptions struct {
	airports    string
	configFile  string
	debug       bool
	noColor     bool
	today       string
	tripType    tripTypeValue
	resultsView bool
	press       []string
	snapshot    bool
	width       int
	height      int
	output      string

	cfg config.Config
	run *settings.Run
}

var rootCmd = NewRootCmd()

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Flight search form with airport autocomplete",
		Long: "flightform opens a flight search form in the terminal. Origin and destination\n" +
			"suggest airports as you type, the departure date can not be in the past, the\n" +
			"return date can not precede departure and is dropped for one-way trips.\n" +
			"Submitting with ctrl+s prints the form values.",
		Example: "  flightform\n" +
			"  flightform --airports https://example.com/static/airports.json\n" +
			"  flightform --trip-type one-way --snapshot --press 'new<Down><CR>'\n" +
			"  flightform suggest york -o json\n" +
			"  flightform serve --addr :8080",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runForm(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.airports, "airports", "", "airport data: file path, http(s) URL or gs://bucket/object (default: built-in sample)")
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file")
	pf.BoolVar(&o.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&o.noColor, "no-color", false, "disable color output")
	pf.StringVar(&o.today, "today", "", "treat this date (YYYY-MM-DD) as today")

	f := cmd.Flags()
	f.Var(&o.tripType, "trip-type", "initial trip type: round-trip|one-way")
	f.BoolVar(&o.resultsView, "results-view", false, "add the secondary results origin/destination inputs")
	f.StringArrayVar(&o.press, "press", nil, "simulate keys on startup, e.g. --press 'new<Down><CR>' (<Tab>, <S-Tab>, <Esc>, <Space>, <C-s>)")
	f.BoolVar(&o.snapshot, "snapshot", false, "render one frame and exit instead of running interactively")
	f.IntVar(&o.width, "width", 0, "screen width in columns (0 = detect)")
	f.IntVar(&o.height, "height", 0, "screen height in rows (0 = detect)")
	f.StringVarP(&o.output, "output", "o", "", "submission output format: yaml|json (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("trip-type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.TripTypes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newSuggestCmd(o), newServeCmd(o), newCheckCmd(o), newVersionCmd())
	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// prepare loads configuration, applies flag overrides and installs the
// logger and run settings in the command context.
func (o *rootOptions) prepare(cmd *cobra.Command) error {
	var level int8
	if o.debug {
		level = -1
	}
	lgr := logger.Get(level)
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	cfg, run, err := loadRunConfig(cmd, o)
	if err != nil {
		return err
	}
	o.cfg, o.run = cfg, run

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	return nil
}

func (o *rootOptions) uiOptions() (ui.Options, error) {
	src, err := airports.ParseSource(o.run.AirportsSource)
	if err != nil {
		return ui.Options{}, err
	}
	return ui.Options{
		AppName:      o.cfg.App.Name,
		Dataset:      airports.NewDataset(),
		Source:       src,
		LoadTimeout:  o.cfg.Airports.Timeout,
		ResultsView:  o.run.ResultsView,
		TripType:     o.cfg.Form.TripType,
		ReturnActive: o.cfg.Form.ReturnActive,
		Now:          o.run.Now,
		Theme:        o.cfg.UI.Theme,
		NoColor:      o.run.NoColor,
	}, nil
}

func (o *rootOptions) runForm(cmd *cobra.Command) error {
	ctx := cmd.Context()
	opts, err := o.uiOptions()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if o.snapshot {
		view, m, err := ui.RenderSnapshot(ctx, opts, ui.SnapshotConfig{
			Width:     o.width,
			Height:    o.height,
			StartKeys: o.press,
		})
		if err != nil {
			return err
		}
		if m.Submitted() {
			return writeSubmission(out, m.Submission(), o.cfg.UI.Output)
		}
		_, err = fmt.Fprintln(out, view)
		return err
	}

	m, err := ui.New(ctx, opts)
	if err != nil {
		return err
	}
	final, err := ui.RunModel(m, o.width, o.height, o.press)
	if err != nil {
		return err
	}
	if !final.Submitted() {
		logger.FromContext(ctx).V(1).Info("form closed without submitting")
		return nil
	}
	return writeSubmission(out, final.Submission(), o.cfg.UI.Output)
}

func writeSubmission(w io.Writer, values map[string]string, format string) error {
	f, err := formatter.ParseFormat(format, formatter.FormatYAML, formatter.FormatJSON)
	if err != nil {
		return err
	}
	text, err := formatter.Marshal(values, f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
