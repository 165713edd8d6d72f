package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neo/passwordanalyzer/internal/server"
	"github.com/spf13/cobra"
)

const envTemplate = `# Server Configuration
PORT=8080
APP_ENV=development
SHUTDOWN_TIMEOUT=10s

# Logging
LOG_LEVEL=info
# LOG_FILE=logs/app.log

# Feature flags file (created with defaults if missing)
FEATURE_FLAGS_PATH=feature_flags.json
`

func newInitCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a template .env and default feature flags",
		Long: `Initialize a working directory for the analyzer.

This command will:
1. Create a template .env file if it doesn't exist
2. Create feature_flags.json with default values if it doesn't exist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("error creating directory %s: %w", dir, err)
			}

			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); os.IsNotExist(err) {
				if err := os.WriteFile(envPath, []byte(envTemplate), 0644); err != nil {
					return fmt.Errorf("error creating .env template: %w", err)
				}
				fmt.Fprintln(out, "✓ Created .env template file")
			} else {
				fmt.Fprintln(out, "• .env already exists, leaving it untouched")
			}

			flagsPath := filepath.Join(dir, server.DefaultFeatureFlagsPath)
			if _, err := server.NewFeatureFlagManager(flagsPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Feature flags ready at %s\n", flagsPath)

			fmt.Fprintln(out, "\n✨ Initialization complete!")
			fmt.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "1. Start the server:")
			fmt.Fprintln(out, "   passwordanalyzer serve")
			fmt.Fprintln(out, "2. Open http://localhost:8080")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to initialize")
	return cmd
}

func init() {
	rootCmd.AddCommand(newInitCmd())
}
