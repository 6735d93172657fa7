package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teampulse/pulse/internal/types"
)

var showResolved bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List a workspace's alerts",
	Long: `List alerts for a workspace, newest first. Resolved alerts are
hidden unless --all is given.

Examples:
  pulse alerts --workspace backend
  pulse alerts --workspace backend --all`,
	Run: func(cmd *cobra.Command, args []string) {
		requireWorkspace()
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		alerts, err := store.ListAlerts(ctx, workspace, showResolved)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printAlerts(alerts)
	},
}

var alertsResolveCmd = &cobra.Command{
	Use:   "resolve <alert-id>",
	Short: "Mark an alert resolved",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.ResolveAlert(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Resolved %s\n", green("✓"), args[0])
	},
}

func printAlerts(alerts []*types.Alert) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Alerts: "+workspace+" ==="))

	if len(alerts) == 0 {
		fmt.Printf("%s No alerts\n\n", green("✓"))
		return
	}

	for _, alert := range alerts {
		sev := yellow
		switch alert.Severity {
		case types.SeverityCritical:
			sev = red
		case types.SeverityInfo:
			sev = gray
		}

		marker := sev("●")
		if alert.Resolved {
			marker = gray("○")
		}

		fmt.Printf("%s [%s] %s\n", marker, alert.Severity, alert.Title)
		fmt.Printf("  %s %s · %s\n", gray("id:"), gray(alert.ID), gray(alert.CreatedAt.Format("2006-01-02 15:04")))
		if alert.Description != "" {
			fmt.Printf("  %s\n", alert.Description)
		}
	}
	fmt.Println()
}

func init() {
	alertsCmd.Flags().BoolVar(&showResolved, "all", false, "include resolved alerts")
	alertsCmd.AddCommand(alertsResolveCmd)
	rootCmd.AddCommand(alertsCmd)
}
