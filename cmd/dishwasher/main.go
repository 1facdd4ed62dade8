// Command dishwasher runs the control firmware of a converted washing
// appliance: filling, agitation, heating, soap and drain sequencing with
// audible status and fault codes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cristianszwarc/dishwasher/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dishwasher",
	Short: "Washing appliance cycle controller",
	Long: `dishwasher sequences the intake valve, agitation pump, heater, soap
dispenser and drain pump of a converted washing appliance. The machine has
no display: status and faults are signaled by beep codes, listed by
"dishwasher codes".`,
	SilenceUsage: true,
}

var (
	flagConfig   string
	flagLogLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override the configured log level")
}

// loadConfig applies the persistent flags on top of the file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
