package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/neo/passwordanalyzer/internal/server"
	"github.com/spf13/cobra"
)

func newFlagsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Show or change the feature flags file",
		Long: `Show or change the feature flags file used by serve.

The file defaults to FEATURE_FLAGS_PATH from the environment. A running
server applies changes when it receives SIGHUP.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "feature flags file (overrides FEATURE_FLAGS_PATH)")

	openManager := func(cmd *cobra.Command) (*server.FeatureFlagManager, error) {
		flagsPath := path
		if flagsPath == "" {
			envFile, _ := cmd.Flags().GetString("config")
			config, err := server.LoadConfig(envFile)
			if err != nil {
				return nil, err
			}
			flagsPath = config.FeatureFlagsPath
		}
		return server.NewFeatureFlagManager(flagsPath)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current feature flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd)
			if err != nil {
				return err
			}
			return writeFlags(cmd.OutOrStdout(), manager.GetFlags())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set name=value...",
		Short: "Change one or more feature flags",
		Example: `  passwordanalyzer flags set enable_live_analysis=true
  passwordanalyzer flags set enable_estimate=false enable_json_api=true`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := openManager(cmd)
			if err != nil {
				return err
			}

			flags, err := applyFlagAssignments(manager.GetFlags(), args)
			if err != nil {
				return err
			}
			if err := manager.UpdateFlags(flags); err != nil {
				return fmt.Errorf("failed to save feature flags: %w", err)
			}
			return writeFlags(cmd.OutOrStdout(), flags)
		},
	})

	return cmd
}

// applyFlagAssignments sets each name=value pair on flags, using the JSON field names
func applyFlagAssignments(flags server.FeatureFlags, assignments []string) (server.FeatureFlags, error) {
	data, err := json.Marshal(flags)
	if err != nil {
		return flags, err
	}
	values := make(map[string]bool)
	if err := json.Unmarshal(data, &values); err != nil {
		return flags, err
	}

	for _, assignment := range assignments {
		name, raw, ok := strings.Cut(assignment, "=")
		if !ok {
			return flags, fmt.Errorf("expected name=value, got %q", assignment)
		}
		if _, known := values[name]; !known {
			return flags, fmt.Errorf("unknown feature flag %q (known: %s)", name, strings.Join(flagNames(values), ", "))
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return flags, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		values[name] = value
	}

	data, err = json.Marshal(values)
	if err != nil {
		return flags, err
	}
	var updated server.FeatureFlags
	if err := json.Unmarshal(data, &updated); err != nil {
		return flags, err
	}
	return updated, nil
}

func flagNames(values map[string]bool) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeFlags(w io.Writer, flags server.FeatureFlags) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(flags)
}

func init() {
	rootCmd.AddCommand(newFlagsCmd())
}
