// Package repl implements the interactive prompt: read a line, and if
// it leaves an open brace continue reading continuation lines until
// braces balance, then hand the assembled source to one Interpret
// call on a long-lived VM.
package repl

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sentra-lang/nox/internal/natives"
	"github.com/sentra-lang/nox/internal/table"
	"github.com/sentra-lang/nox/internal/vm"
)

const (
	prompt         = ">>> "
	continuePrompt = ".. "
)

// Run drives the REPL against stdin/stdout until EOF or an "exit"
// line. Globals and interned strings persist across iterations; only
// the stacks reset between each Interpret call.
func Run() error {
	errColor := color.New(color.FgRed, color.Bold)
	promptColor := color.New(color.FgCyan)
	if !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	interner := table.NewInterner()
	machine := vm.New(interner, 0)
	natives.Install(machine)

	fmt.Println("Nox REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		promptColor.Print(prompt)
		source, ok := readStatement(scanner, promptColor)
		if !ok {
			return nil
		}
		if source == "exit" {
			return nil
		}
		if source == "" {
			continue
		}

		if err := machine.Interpret(source); err != nil {
			errColor.Fprintln(os.Stderr, err.Error())
		}
	}
}

// readStatement reads one line, then — if it leaves an unbalanced '{'
// — keeps reading continuation lines prefixed with ".. " until braces
// balance. Returns ok=false on EOF with nothing read yet.
func readStatement(scanner *bufio.Scanner, promptColor *color.Color) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	source := scanner.Text()
	depth := braceDepth(source)
	for depth > 0 {
		promptColor.Print(continuePrompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		source += "\n" + line
		depth += braceDepth(line)
	}
	return source, true
}

func braceDepth(line string) int {
	depth := 0
	for _, ch := range line {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
