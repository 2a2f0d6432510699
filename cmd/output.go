package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// All commands use these functions to ensure consistent icon usage and
// indentation throughout triage's CLI output.
//
// Icon semantics:
//   ✓  success / match
//   ✗  error / failure          (written to stderr)
//   ⚠  warning / mismatch
//   ~  neutral info

var (
	okIcon   = color.New(color.FgGreen).SprintFunc()
	errIcon  = color.New(color.FgRed).SprintFunc()
	warnIcon = color.New(color.FgYellow).SprintFunc()
	infoIcon = color.New(color.FgCyan).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
)

// printSection prints a top-level section header, e.g. "=== Train ===".
func printSection(title string) {
	fmt.Printf("\n=== %s ===\n", bold(title))
}

func printLine(w io.Writer, icon, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  %s  %s\n", icon, msg)
	} else {
		fmt.Fprintf(w, "  %s  [%s] %s\n", icon, name, msg)
	}
}

// printOK prints a success line.
//   name = "" → "  ✓  msg"
//   name set  → "  ✓  [name] msg"
func printOK(name, msg string) {
	printLine(os.Stdout, okIcon("✓"), name, msg)
}

// printErr prints an error line to stderr.
func printErr(name, msg string) {
	printLine(os.Stderr, errIcon("✗"), name, msg)
}

// printWarn prints a warning line.
func printWarn(name, msg string) {
	printLine(os.Stdout, warnIcon("⚠"), name, msg)
}

// printInfo prints a neutral informational line.
func printInfo(name, msg string) {
	printLine(os.Stdout, infoIcon("~"), name, msg)
}
