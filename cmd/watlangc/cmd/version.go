package cmd

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

var checkMinConstraint string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the watlangc version",
	Long: `Print the watlangc version.

With --check-min, validate the running tool's version against a
semver constraint instead, exiting non-zero if it isn't satisfied —
useful for pinning a minimum compiler version in CI.`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVar(&checkMinConstraint, "check-min", "", `constraint to check against, e.g. ">= 0.2.0"`)
}

func runVersion(_ *cobra.Command, _ []string) error {
	if checkMinConstraint == "" {
		fmt.Printf("watlangc %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return nil
	}

	current, err := goversion.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("running version %q is not a valid semver: %w", Version, err)
	}

	constraint, err := goversion.NewConstraint(checkMinConstraint)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", checkMinConstraint, err)
	}

	if !constraint.Check(current) {
		return fmt.Errorf("watlangc %s does not satisfy constraint %q", Version, checkMinConstraint)
	}

	fmt.Printf("watlangc %s satisfies %q\n", Version, checkMinConstraint)
	return nil
}
