// Command rep-counter counts motion events from a sensor, shows the running
// count on a multiplexed seven-segment display and hands each finished
// session to MQTT.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sweeney/rep-counter/internal/display"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags are bound to v so they override
// the config file and environment.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "rep-counter",
		Short:         "Count repetitions from a motion sensor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, toml or json)")

	root.AddCommand(
		newRunCmd(v, &configPath),
		newReadCmd(v, &configPath),
		newDisplayCmd(v, &configPath),
	)
	return root
}

func newRunCmd(v *viper.Viper, configPath *string) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run counting sessions until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, *configPath)
			if err != nil {
				return err
			}
			return runDaemon(cmd.Context(), cfg, once)
		},
	}
	f := cmd.Flags()
	f.Duration("idle-timeout", 0, "end the session after this long without motion (required)")
	f.Duration("tick", 0, "sampling period (default 200ms)")
	f.Int("max-events", 0, "end the session after this many events (default 100)")
	f.String("sensor", "", "sensor kind: mpu6050 or pir")
	f.String("broker", "", "MQTT broker address (empty disables MQTT)")
	f.String("http", "", `HTTP status address (default ":8080", empty disables)`)
	f.BoolVar(&once, "once", false, "exit after the first session ends")
	cmd.PreRunE = bindFlags(v, map[string]string{
		"session.idle_timeout": "idle-timeout",
		"tick":                 "tick",
		"session.max_events":   "max-events",
		"sensor.kind":          "sensor",
		"mqtt.broker":          "broker",
		"http":                 "http",
	})
	return cmd
}

func newReadCmd(v *viper.Viper, configPath *string) *cobra.Command {
	var samples int
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print sensor samples and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := readConfig(v, *configPath)
			if err != nil {
				return err
			}
			return runRead(cmd.Context(), cmd.OutOrStdout(), cfg, samples, interval)
		},
	}
	f := cmd.Flags()
	f.String("sensor", "", "sensor kind: mpu6050 or pir")
	f.IntVarP(&samples, "samples", "n", 1, "number of samples to print")
	f.DurationVar(&interval, "interval", 200*time.Millisecond, "time between samples")
	cmd.PreRunE = bindFlags(v, map[string]string{"sensor.kind": "sensor"})
	return cmd
}

func newDisplayCmd(v *viper.Viper, configPath *string) *cobra.Command {
	var hold, refresh time.Duration
	cmd := &cobra.Command{
		Use:   "display <number>",
		Short: "Show a number on the display for a while",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseCount(args[0])
			if err != nil {
				return err
			}
			cfg, err := readConfig(v, *configPath)
			if err != nil {
				return err
			}
			return runDisplay(cmd.Context(), cfg, n, hold, refresh)
		},
	}
	cmd.Flags().DurationVar(&hold, "for", 5*time.Second, "how long to show the number")
	cmd.Flags().DurationVar(&refresh, "refresh", display.DefaultRefresh, "time between display refreshes")
	return cmd
}

// bindFlags returns a PreRunE hook that maps config keys to the running
// command's flags. Binding at run time keeps commands sharing a key from
// overriding each other.
func bindFlags(v *viper.Viper, keys map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		for key, name := range keys {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
		return nil
	}
}
