package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edvin/onboarding/internal/cli"
	"github.com/edvin/onboarding/internal/client"
	"github.com/edvin/onboarding/internal/model"
)

// demoScenarios are the sample instructions the demo command runs in order.
var demoScenarios = []string{
	"onboard employee Pradeep Kumar,pradeep.n2019@gmail.com as developer in engineering",
	"create new employee Sarah Johnson,sarah.johnson@company.com for manager role",
	"process onboarding for intern Mike Wilson,mike.wilson@company.com in IT department",
	"add employee Jessica Smith,jessica.smith@company.com as executive in operations",
}

var (
	assetsEmployee string
	runsLimit      int
	demoPause      time.Duration
)

func init() {
	onboardCmd := &cobra.Command{
		Use:   "onboard <instruction...>",
		Short: "Onboard an employee from a plain-language instruction",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withSession(runOnboard),
	}
	extractCmd := &cobra.Command{
		Use:   "extract <instruction...>",
		Short: "Show the fields extracted from an instruction without onboarding",
		Args:  cobra.MinimumNArgs(1),
		RunE:  withSession(runExtract),
	}
	employeesCmd := &cobra.Command{
		Use:   "employees",
		Short: "List employee records",
		Args:  cobra.NoArgs,
		RunE:  withSession(runEmployees),
	}
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "List allocated assets",
		Args:  cobra.NoArgs,
		RunE:  withSession(runAssets),
	}
	assetsCmd.Flags().StringVar(&assetsEmployee, "employee", "", "Only list assets assigned to this employee ID")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent onboarding runs",
		Args:  cobra.NoArgs,
		RunE:  withSession(runRuns),
	}
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Show backend service health",
		Args:  cobra.NoArgs,
		RunE:  withSession(runHealth),
	}
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream progress events of runs on the API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the sample onboarding scenarios",
		Args:  cobra.NoArgs,
		RunE:  withSession(runDemo),
	}
	demoCmd.Flags().DurationVar(&demoPause, "pause", time.Second, "Pause between scenarios")

	rootCmd.AddCommand(onboardCmd, extractCmd, employeesCmd, assetsCmd, runsCmd, healthCmd, watchCmd, demoCmd)
}

func withSession(fn func(ctx context.Context, s session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, s, args)
	}
}

func runOnboard(ctx context.Context, s session, args []string) error {
	result, err := s.Onboard(ctx, strings.Join(args, " "), printProgress())
	if err != nil {
		return err
	}
	if flagJSON {
		return cli.PrintJSON(os.Stdout, result)
	}
	cli.PrintResult(os.Stdout, result)
	if !result.OverallSuccess {
		return fmt.Errorf("onboarding did not complete")
	}
	return nil
}

func runExtract(ctx context.Context, s session, args []string) error {
	fields, err := s.Extract(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if flagJSON {
		return cli.PrintJSON(os.Stdout, fields)
	}
	cli.PrintFields(os.Stdout, fields)
	return nil
}

func runEmployees(ctx context.Context, s session, _ []string) error {
	employees, err := s.Employees(ctx)
	if err != nil {
		return err
	}
	if flagJSON {
		return cli.PrintJSON(os.Stdout, employees)
	}
	cli.PrintEmployees(os.Stdout, employees)
	return nil
}

func runAssets(ctx context.Context, s session, _ []string) error {
	list, err := s.Assets(ctx, assetsEmployee)
	if err != nil {
		return err
	}
	if flagJSON {
		return cli.PrintJSON(os.Stdout, list)
	}
	cli.PrintAssets(os.Stdout, list.Items, list.TotalCost)
	return nil
}

func runRuns(ctx context.Context, s session, _ []string) error {
	runs, err := s.Runs(ctx, runsLimit)
	if err != nil {
		return err
	}
	if flagJSON {
		return cli.PrintJSON(os.Stdout, runs)
	}
	cli.PrintRuns(os.Stdout, runs)
	return nil
}

func runHealth(ctx context.Context, s session, _ []string) error {
	report, err := s.Health(ctx)
	if err != nil {
		return err
	}
	if flagJSON {
		return cli.PrintJSON(os.Stdout, report)
	}
	cli.PrintHealth(os.Stdout, report)
	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if flagLocal {
		return fmt.Errorf("watch needs a running API; it cannot be combined with --local")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url, key := cli.Resolve(flagAPIURL, flagAPIKey)
	fmt.Fprintf(os.Stderr, "Watching %s for onboarding progress (Ctrl-C to stop)\n", url)
	return client.New(url, key).Watch(ctx, func(ev model.ProgressEvent) {
		if flagJSON {
			cli.PrintJSON(os.Stdout, ev)
			return
		}
		cli.PrintEvent(os.Stdout, ev)
	})
}

func runDemo(ctx context.Context, s session, _ []string) error {
	succeeded := 0
	for i, scenario := range demoScenarios {
		fmt.Printf("\nScenario %d/%d: %s\n", i+1, len(demoScenarios), scenario)
		result, err := s.Onboard(ctx, scenario, printProgress())
		if err != nil {
			return fmt.Errorf("scenario %d: %w", i+1, err)
		}
		cli.PrintResult(os.Stdout, result)
		if result.OverallSuccess {
			succeeded++
		}

		if i < len(demoScenarios)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(demoPause):
			}
		}
	}

	fmt.Printf("\n%d of %d scenarios succeeded\n", succeeded, len(demoScenarios))

	list, err := s.Assets(ctx, "")
	if err != nil {
		return err
	}
	fmt.Printf("%d assets allocated, total cost %.2f\n", list.Total, list.TotalCost)
	return nil
}

// printProgress prints events as they arrive unless JSON output was asked for.
func printProgress() func(model.ProgressEvent) {
	if flagJSON {
		return nil
	}
	return func(ev model.ProgressEvent) { cli.PrintEvent(os.Stderr, ev) }
}
