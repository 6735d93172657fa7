package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teampulse/pulse/internal/engine"
	"github.com/teampulse/pulse/internal/rules"
	"github.com/teampulse/pulse/internal/types"
)

var configPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the heuristics pass for a workspace",
	Long: `Run the full rule battery for a workspace and persist the resulting
alerts. Re-running within the dedup window is safe: duplicate findings
are counted, not re-created.

Examples:
  # Analyze with defaults
  pulse analyze --workspace backend

  # Custom thresholds
  pulse analyze --workspace backend --config pulse.yml

  # Against PostgreSQL
  pulse analyze --workspace backend --postgres postgres://pulse@db/pulse`,
	Run: func(cmd *cobra.Command, args []string) {
		requireWorkspace()
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		store, err := openStore(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		result, err := engine.New(store, cfg).Run(ctx, workspace)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printRunResult(result)
	},
}

func loadConfig() (rules.Config, error) {
	if configPath == "" {
		return rules.DefaultConfig(), nil
	}
	return rules.LoadConfig(configPath)
}

func printRunResult(result *engine.RunResult) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Pulse Analysis: "+workspace+" ==="))

	if len(result.Created) == 0 {
		fmt.Printf("%s No new alerts\n", green("✓"))
	} else {
		fmt.Printf("%s %d new alert(s)\n", yellow("!"), len(result.Created))
		for _, alert := range result.Created {
			sev := yellow
			switch alert.Severity {
			case types.SeverityCritical:
				sev = red
			case types.SeverityInfo:
				sev = gray
			}
			fmt.Printf("  %s [%s] %s\n", sev("●"), alert.Severity, alert.Title)
		}
	}

	if result.Duplicates > 0 {
		fmt.Printf("%s %d duplicate finding(s) suppressed\n", gray("○"), result.Duplicates)
	}

	for _, alert := range result.Escalated {
		fmt.Printf("%s %s\n", red("▲"), alert.Title)
	}

	if result.CycleTime != nil && result.CycleTime.Measured > 0 {
		ct := result.CycleTime
		fmt.Printf("\n%s\n", cyan("Cycle time (last 30 days):"))
		fmt.Printf("  %d of %d PRs measurable, average %s\n",
			ct.Measured, ct.PullRequests, formatSeconds(int64(ct.AverageTotalSeconds)))
		if ct.ExceededCycle+ct.ExceededCoding+ct.ExceededDeployment > 0 {
			fmt.Printf("  %s thresholds exceeded: %d cycle, %d coding, %d deployment\n",
				yellow("!"), ct.ExceededCycle, ct.ExceededCoding, ct.ExceededDeployment)
		}
	}

	if len(result.RuleErrors) > 0 {
		names := make([]string, 0, len(result.RuleErrors))
		for name := range result.RuleErrors {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Printf("\n%s %d rule(s) failed:\n", yellow("!"), len(names))
		for _, name := range names {
			fmt.Printf("  %s %s: %v\n", red("✗"), name, result.RuleErrors[name])
		}
	}
	fmt.Println()
}

func formatSeconds(s int64) string {
	if s < 3600 {
		return fmt.Sprintf("%dm", s/60)
	}
	return fmt.Sprintf("%dh%dm", s/3600, (s%3600)/60)
}

func init() {
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "YAML config file with rule thresholds")
	rootCmd.AddCommand(analyzeCmd)
}
