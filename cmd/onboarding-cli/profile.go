package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edvin/onboarding/internal/cli"
)

var profileNoActivate bool

func init() {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved API endpoints",
	}

	addCmd := &cobra.Command{
		Use:   "add <name> <api-url> [api-key]",
		Short: "Save an API endpoint and make it active",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			key := ""
			if len(args) == 3 {
				key = args[2]
			}
			p, err := cli.SaveProfile(args[0], args[1], key)
			if err != nil {
				return err
			}
			fmt.Printf("Saved profile %q (%s)\n", p.Name, p.APIURL)
			if profileNoActivate {
				return nil
			}
			if err := cli.SetActive(p.Name); err != nil {
				return fmt.Errorf("set active profile: %w", err)
			}
			fmt.Printf("Active profile set to %q\n", p.Name)
			return nil
		},
	}
	addCmd.Flags().BoolVar(&profileNoActivate, "no-activate", false, "Do not make the new profile active")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			profiles, err := cli.ListProfiles()
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Println("No profiles found. Add one with: onboarding-cli profile add <name> <api-url>")
				return nil
			}

			active, _ := cli.GetActive()

			fmt.Printf("%-20s %-40s %s\n", "NAME", "API URL", "ACTIVE")
			for _, p := range profiles {
				marker := ""
				if p.Name == active {
					marker = " *"
				}
				fmt.Printf("%-20s %-40s %s\n", p.Name, p.APIURL, marker)
			}
			return nil
		},
	}

	useCmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Make a saved profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := cli.SetActive(args[0]); err != nil {
				return err
			}
			fmt.Printf("Active profile set to %q\n", args[0])
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a saved profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := cli.DeleteProfile(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted profile %q\n", args[0])
			return nil
		},
	}

	profileCmd.AddCommand(addCmd, listCmd, useCmd, deleteCmd)
	rootCmd.AddCommand(profileCmd)
}
