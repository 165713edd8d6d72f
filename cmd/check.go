package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/neo/passwordanalyzer/internal/strength"
	"github.com/neo/passwordanalyzer/internal/types"
	"github.com/spf13/cobra"
)

// errBelowThreshold makes check exit non-zero when --fail-below is not met
var errBelowThreshold = errors.New("password strength below threshold")

type checkReport struct {
	Result   strength.Result    `json:"result"`
	Estimate *strength.Estimate `json:"estimate,omitempty"`
}

func newCheckCmd() *cobra.Command {
	var (
		asJSON       bool
		withEstimate bool
		failBelow    string
	)

	cmd := &cobra.Command{
		Use:   "check [password]",
		Short: "Analyze a password from the command line",
		Long: `Analyze a password and print the checklist, score, suggestions and
SHA-256 digest. When no argument is given the first line of stdin is
used, which keeps the password out of shell history.

With --fail-below the command exits non-zero when the label is weaker
than the given one, for use in scripts.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var threshold types.StrengthLabel
			if failBelow != "" {
				parsed, err := types.ParseStrengthLabel(failBelow)
				if err != nil {
					return fmt.Errorf("invalid --fail-below: %w", err)
				}
				threshold = parsed
			}

			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = line
			}

			report := checkReport{Result: strength.Evaluate(password)}
			if withEstimate {
				estimate := strength.EstimateStrength(password)
				report.Estimate = &estimate
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(report); err != nil {
					return err
				}
			} else {
				writeReport(out, report)
			}

			if threshold != "" && report.Result.Label.Rank() < threshold.Rank() {
				return fmt.Errorf("%w: %s is weaker than %s", errBelowThreshold, report.Result.Label, threshold)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&withEstimate, "estimate", false, "include the zxcvbn crack-time estimate")
	cmd.Flags().StringVar(&failBelow, "fail-below", "", fmt.Sprintf("exit non-zero when weaker than this label, one of %q", types.AllStrengthLabels))
	return cmd
}

// readLine returns the first line of r without its line ending. Empty input is the empty password.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeReport(w io.Writer, report checkReport) {
	result := report.Result

	fmt.Fprintf(w, "Strength: %s (Score: %d/%d)\n", result.Label, result.Score, strength.MaxScore)
	fmt.Fprintln(w, "Checklist:")
	for _, item := range result.Checks.Items() {
		mark := "❌"
		if item.Passed {
			mark = "✅"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, item.Description)
	}

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w, "Suggestions:")
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}

	if report.Estimate != nil {
		fmt.Fprintf(w, "Estimate: %d/4, %.1f bits, cracked in %s\n",
			report.Estimate.Score, report.Estimate.Entropy, report.Estimate.CrackTime)
	}

	fmt.Fprintf(w, "SHA-256: %s\n", result.Digest)
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}
