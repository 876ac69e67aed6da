package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"storia/internal/envcheck"
)

var errCriticalIssues = errors.New("critical issues found")

// storiactl check-env
func cmdCheckEnv(args []string) error {
	var cf commonFlags
	fs := newFlagSet("check-env")
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, root, err := loadConfig("check-env", cf)
	if err != nil {
		return err
	}

	report := envcheck.Inspect(root, cfg)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	issues := report.Issues()
	envcheck.WriteIssues(stderr, issues)
	if len(issues) > 0 {
		return fmt.Errorf("%w: %d", errCriticalIssues, len(issues))
	}
	return nil
}
