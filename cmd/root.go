package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "passwordanalyzer",
	Short: "Password Analyzer - password strength checks and SHA-256 digests",
	Long: `Password Analyzer scores passwords against five composition checks
(length, lowercase, uppercase, digit, special character) and shows the
SHA-256 digest of the input. It runs as a small web form or from the
command line.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", ".env", "env file to load before reading the environment")
}
