package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/clubdash/internal/config"
	"github.com/marcus/clubdash/internal/output"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show or change settings in ~/.config/clubdash/config.json",
	GroupID: "system",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (file, .env and CLUBDASH_* env applied)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		values := make(map[string]string, len(config.Keys))
		for _, key := range config.Keys {
			values[key], _ = cfg.Get(key)
		}
		if jsonOutput(cmd) {
			return output.JSON(values)
		}
		for _, key := range config.Keys {
			fmt.Printf("%-16s %s\n", key, values[key])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a config key; omit the value to clear it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile()
		if err != nil {
			output.Error("%v", err)
			return err
		}

		var value string
		if len(args) == 2 {
			value = args[1]
		}
		if err := cfg.Set(args[0], value); err != nil {
			output.Error("%v", err)
			return err
		}
		if err := config.Save(cfg); err != nil {
			output.Error("save config: %v", err)
			return err
		}

		if value == "" {
			output.Success("Cleared %s", args[0])
		} else {
			output.Success("Set %s = %s", args[0], value)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
