package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/flightform/internal/config"
	"github.com/oakwood-commons/flightform/pkg/settings"
)

// loadRunConfig merges the config file with the flags the user actually set.
// Flags win over the file; the file wins over built-in defaults.
func loadRunConfig(cmd *cobra.Command, o *rootOptions) (config.Config, *settings.Run, error) {
	path := config.ResolvePath(o.configFile, settings.CliBinaryName)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("airports") {
		cfg.Airports.Source = o.airports
	}
	// Form flags are local to the root command; subcommands may define flags
	// with the same names.
	if rootFlagChanged(cmd, "trip-type") {
		cfg.Form.TripType = o.tripType.String()
	}
	if rootFlagChanged(cmd, "results-view") {
		cfg.Form.ResultsView = o.resultsView
	}
	if rootFlagChanged(cmd, "output") {
		cfg.UI.Output = o.output
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	run := settings.NewCliParams()
	run.NoColor = o.noColor
	run.AirportsSource = cfg.Airports.Source
	run.ResultsView = cfg.Form.ResultsView
	if o.debug {
		run.MinLogLevel = -1
	}
	if o.today != "" {
		today, err := time.ParseInLocation(settings.DateLayout, o.today, time.Local)
		if err != nil {
			return cfg, nil, fmt.Errorf("--today: %q is not a YYYY-MM-DD date", o.today)
		}
		run.Today = today
	}
	return cfg, run, nil
}

func rootFlagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Root().Flags().Lookup(name)
	return f != nil && f.Changed
}
