// Package cli implements the qaconv command table.
package cli

import (
	"fmt"
	"io"
	"strings"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command is one entry in the qaconv command table.
type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

// Run dispatches args to a command and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	switch args[0] {
	case "-h", "--help":
		printUsage(stdout)
		return ExitOK
	case "help":
		return runHelp(args[1:], stdout, stderr)
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}
	return cmd.Run(args[1:], stdout, stderr)
}

// runHelp prints root usage or, given a command name, that command's usage.
func runHelp(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitOK
	}
	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		return ExitUsage
	}
	printCommandUsage(cmd, stdout)
	return ExitOK
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

const exitLegend = "Exit codes: 0 all files ok, 1 errored or mismatched files, 2 usage error."

func printUsage(w io.Writer) {
	width := 0
	for _, cmd := range commands {
		width = max(width, len(cmd.Name))
	}
	var b strings.Builder
	b.WriteString("Usage:\n  qaconv <command> [options]\n\nCommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, cmd.Name, cmd.Summary)
	}
	b.WriteString("\nRun \"qaconv help <command>\" for command options.\n")
	b.WriteString(exitLegend + "\n")
	io.WriteString(w, b.String())
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s.\n", cmd.Summary)
	}
	fmt.Fprintln(w, exitLegend)
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

const treeFlags = "[--config <path>] [--base-dir <dir> --dataset <name> --task <name>]"

var commands = []*Command{
	command("encode", "Regenerate derived artifacts from canonical case JSON", []string{
		"qaconv encode " + treeFlags + " [--formats xml,html,ttl,txt] [--output-dir <dir>] [--workers <n>] [--dry-run]",
	}, runBatch("encode")),
	command("check", "Lint derived TTL artifacts against fresh encodings", []string{
		"qaconv check " + treeFlags + " [--markers <list>] [--workers <n>]",
	}, runBatch("check")),
	command("qa", "Validate QA score files against case data", []string{
		"qaconv qa " + treeFlags + " [--good-score <n>] [--max-score <n>]",
	}, runBatch("qa")),
	command("watch", "Regenerate artifacts when case files change", []string{
		"qaconv watch " + treeFlags + " [--formats <list>]",
	}, runWatch),
	command("validate", "Validate the config and every case file", []string{
		"qaconv validate " + treeFlags,
	}, runValidate),
}
