package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/flightform/internal/config"
)

// tripTypeValue is a pflag.Value restricted to the known trip types.
type tripTypeValue string

func (t *tripTypeValue) String() string { return string(*t) }

func (t *tripTypeValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(config.TripTypes, s) {
		return fmt.Errorf("must be one of %s", strings.Join(config.TripTypes, "|"))
	}
	*t = tripTypeValue(s)
	return nil
}

func (t *tripTypeValue) Type() string { return "trip-type" }

var _ pflag.Value = (*tripTypeValue)(nil)
