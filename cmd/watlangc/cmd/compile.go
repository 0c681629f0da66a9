package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wat-lang/watlang/internal/ast"
	"github.com/wat-lang/watlang/internal/cerrors"
	"github.com/wat-lang/watlang/internal/codegen"
	"github.com/wat-lang/watlang/internal/config"
	"github.com/wat-lang/watlang/internal/lexer"
	"github.com/wat-lang/watlang/internal/parser"
	"github.com/wat-lang/watlang/internal/semantic"
	"github.com/wat-lang/watlang/pkg/token"
)

var (
	outputFile     string
	configPath     string
	emitIR         bool
	compileVerbose bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a wat-lang source file to WebAssembly text format",
	Long: `Compile a wat-lang program to WebAssembly text format (.wat).

Examples:
  # Compile to dist/out.wat
  watlangc compile program.wat-lang

  # Compile with a custom output path
  watlangc compile program.wat-lang -o build/module.wat

  # Dump the lowered IR to stderr before emitting text
  watlangc compile program.wat-lang --emit-ir`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: dist/out.wat)")
	compileCmd.Flags().StringVar(&configPath, "config", "watlangc.toml", "project config file")
	compileCmd.Flags().BoolVar(&emitIR, "emit-ir", false, "print the lowered IR to stderr before emitting text")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	l := lexer.New(source)
	program, err := parser.ParseProgram(l)
	if err != nil {
		return reportStageError(err, source, filename)
	}

	if err := semantic.Analyze(program); err != nil {
		return reportStageError(err, source, filename)
	}

	if cfg.DefaultExport {
		for i := range program.Statements {
			program.Statements[i].Exported = true
		}
	}

	module, err := codegen.Lower(program)
	if err != nil {
		return reportStageError(err, source, filename)
	}

	if emitIR {
		dumpIR(program, module)
	}

	text := module.WriteText()

	outFile := outputFile
	if outFile == "" {
		outFile = filepath.Join(cfg.OutputDir, "out.wat")
	}
	if dir := filepath.Dir(outFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(outFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", outFile, len(text))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}

	return nil
}

// reportStageError prints a colored diagnostic (when stderr is a
// terminal) for an error coming out of any pipeline stage, then returns
// a short summary error for cobra to surface as the process exit status.
func reportStageError(err error, source, filename string) error {
	pos := positionOf(err)
	diag := cerrors.New(err, pos, source, filename)
	fmt.Fprint(os.Stderr, diag.Format(isTerminal(os.Stderr)))
	return fmt.Errorf("compilation failed")
}

// positionOf extracts the token.Position carried by the concrete error
// types our stages return, falling back to line 1, column 1.
func positionOf(err error) token.Position {
	type positioned interface{ Position() token.Position }
	if p, ok := err.(positioned); ok {
		return p.Position()
	}
	return token.Position{Line: 1, Column: 1}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func dumpIR(program *ast.Ast, module interface{ WriteText() string }) {
	fmt.Fprintf(os.Stderr, "== IR ==\n")
	fmt.Fprintf(os.Stderr, "top-level declarations: %d\n", len(program.Statements))
	fmt.Fprint(os.Stderr, module.WriteText())
	fmt.Fprintln(os.Stderr)
}
