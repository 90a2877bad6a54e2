// Command nox is the interpreter's single executable: with no
// arguments it starts the REPL, with one argument it reads and runs
// that file.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sentra-lang/nox/internal/compiler"
	"github.com/sentra-lang/nox/internal/config"
	"github.com/sentra-lang/nox/internal/debug"
	"github.com/sentra-lang/nox/internal/errors"
	"github.com/sentra-lang/nox/internal/natives"
	"github.com/sentra-lang/nox/internal/repl"
	"github.com/sentra-lang/nox/internal/table"
	"github.com/sentra-lang/nox/internal/vm"
)

// Exit codes the CLI reports, per the interpreter's usage contract.
const (
	exitOK         = 0
	exitUsageError = 64
	exitCompileErr = 65
	exitRuntimeErr = 70
	exitIOErr      = 74
)

var (
	traceFlag      bool
	configPathFlag string
	dumpFormat     string
)

var rootCmd = &cobra.Command{
	Use:   "nox [path]",
	Short: "Nox language interpreter",
	Long:  `Nox compiles and runs a single-pass bytecode script, or starts an interactive REPL with no arguments.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  run,
}

var dumpCmd = &cobra.Command{
	Use:   "dump <path>",
	Short: "Compile a script and print its chunk without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "disassemble each compiled chunk to stderr before running it")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "directory to search for nox.toml (default: current directory)")
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "dump format: text or msgpack")
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUsageError)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if err := repl.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitIOErr)
		}
		return nil
	}
	return runFile(args[0])
}

func loadConfig() config.Config {
	dir := configPathFlag
	if dir == "" {
		dir = "."
	}
	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nox: %v\n", err)
	}
	return cfg
}

func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nox: %v\n", err)
		os.Exit(exitIOErr)
	}

	cfg := loadConfig()

	interner := table.NewInterner()
	machine := vm.New(interner, cfg.VM.FramesMax)
	natives.Install(machine)

	if cfg.VM.Disassemble || traceFlag {
		if fn, cerr := compiler.Compile(string(source), interner); cerr == nil {
			debug.DisassembleChunk(os.Stderr, fn.Chunk, path)
		}
	}

	if interpErr := machine.Interpret(string(source)); interpErr != nil {
		printErr(interpErr)
		if interpErr.Kind == errors.CompileError {
			os.Exit(exitCompileErr)
		}
		os.Exit(exitRuntimeErr)
	}
	os.Exit(exitOK)
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nox: %v\n", err)
		os.Exit(exitIOErr)
	}

	interner := table.NewInterner()
	fn, cerr := compiler.Compile(string(source), interner)
	if cerr != nil {
		printErr(cerr)
		os.Exit(exitCompileErr)
	}

	switch dumpFormat {
	case "msgpack":
		encoded, err := debug.Marshal(debug.DumpFunction(fn))
		if err != nil {
			fmt.Fprintf(os.Stderr, "nox: %v\n", err)
			os.Exit(exitIOErr)
		}
		os.Stdout.Write(encoded)
	default:
		debug.DisassembleChunk(os.Stdout, fn.Chunk, path)
	}
	os.Exit(exitOK)
	return nil
}

func printErr(err *errors.InterpError) {
	errColor := color.New(color.FgRed, color.Bold)
	errColor.Fprintln(os.Stderr, err.Error())
}
