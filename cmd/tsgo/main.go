// Command tsgo is the core's command-line driver (spec.md §6.2), grounded
// on AILANG's cmd/ailang/main.go: a flag-parsed command dispatch with
// colorized status output, kept deliberately thin -- every real decision
// (scan/parse/bind/lower/check) lives in internal/program and the packages
// it orchestrates, not here.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"tsgo/internal/common"
	"tsgo/internal/diag"
	"tsgo/internal/program"
)

var (
	// Version info, set by ldflags during build.
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		libFlag     = flag.String("lib", "", "Comma-separated lib names to load (default: es5)")
		strictFlag  = flag.Bool("strict", false, "Enable all strict-mode checks")
	)

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	command := flag.Arg(0)

	switch command {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: tsgo check <file.ts> [file2.ts ...]")
			os.Exit(1)
		}
		os.Exit(checkFiles(flag.Args()[1:], libNames(*libFlag), *strictFlag))

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func libNames(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, n := range strings.Split(raw, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// checkFiles runs the full Scanner->Parser->Binder->Lowering->Checker
// pipeline over every named file and prints every diagnostic, returning the
// process exit code (0 clean, 1 errors found, 2 a file couldn't be read).
func checkFiles(paths []string, libs []string, strict bool) int {
	opts := common.Default()
	if strict {
		opts.WithStrict(nil)
	}
	p := program.New(opts)

	if err := p.LoadLibs(libs); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 2
	}

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read file '%s': %v\n", red("Error"), path, err)
			return 2
		}
		if _, err := p.AddFile(path, raw); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %v\n", red("Error"), path, err)
			return 2
		}
	}

	diags := p.Check()
	if len(diags) == 0 {
		fmt.Printf("%s No errors found in %d file(s).\n", green("✓"), len(paths))
		return 0
	}

	errCount := 0
	for _, d := range diags {
		fmt.Println(diag.Format(d, p))
		if d.Category == diag.CategoryError {
			errCount++
		}
	}
	fmt.Printf("\n%s Found %d error(s).\n", red("✗"), errCount)
	if errCount > 0 {
		return 1
	}
	return 0
}

func printVersion() {
	fmt.Printf("tsgo %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
	fmt.Println("\nA from-scratch, TypeScript-compatible type checker")
}

func printHelp() {
	fmt.Println(bold("tsgo - a TypeScript-compatible type checker"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tsgo <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <files...>    Type-check the given files\n", cyan("check"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version        Print version information")
	fmt.Println("  --help           Show this help message")
	fmt.Println("  --lib <names>    Comma-separated lib names to load (default: es5)")
	fmt.Println("  --strict         Enable all strict-mode checks")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s                  # Type-check one file\n", cyan("tsgo check main.ts"))
	fmt.Printf("  %s  # Type-check with the DOM lib\n", cyan("tsgo --lib=es5,dom check app.ts"))
}
