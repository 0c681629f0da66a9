package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "watlangc [file]",
	Short: "Compiler for the wat-lang indentation-sensitive language",
	Long: `watlangc compiles wat-lang source into WebAssembly text format.

wat-lang is a small, indentation-sensitive, expression-oriented
language. Indentation takes the place of braces; functions marked
export are exposed to the WebAssembly host.

Running watlangc directly against a file is shorthand for
"watlangc compile <file>".`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return c.Help()
		}
		return compileScript(c, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}
