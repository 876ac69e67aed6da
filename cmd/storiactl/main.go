package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return 0
	}

	var cmd func([]string) error
	sub := args[0]
	switch sub {
	case "check-env":
		cmd = cmdCheckEnv
	case "smoke-elevenlabs":
		cmd = cmdSmokeElevenLabs
	case "smoke-ambiance":
		cmd = cmdSmokeAmbiance
	case "smoke-music":
		cmd = cmdSmokeMusic
	case "publish":
		cmd = cmdPublish
	case "mcp":
		cmd = cmdMCP
	case "version":
		fmt.Fprintln(stdout, version)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown subcommand: %s\n\n", sub)
		printUsage()
		return 2
	}
	if err := cmd(args[1:]); err != nil {
		// check-env has already reported its issues
		if !errors.Is(err, errCriticalIssues) {
			slog.Error(sub+" failed", "err", err)
		}
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintf(stderr, `storiactl %s

Usage:
  storiactl <subcommand> [flags]

Subcommands:
  check-env         Report runtime, credentials and env files as JSON
  smoke-elevenlabs  Verify the ElevenLabs key against /v1/user
  smoke-ambiance    Analyze a sample passage end to end
  smoke-music       Generate a short sample clip end to end
  publish           Upload an existing MP3 to s3://bucket/key
  mcp               Serve analysis and synthesis as MCP tools on stdio
  version           Print version

Run "storiactl <subcommand> -h" for flags.
`, version)
}
