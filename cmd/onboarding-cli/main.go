// Command onboarding-cli drives the onboarding API, or an in-process
// simulated stack with --local.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/edvin/onboarding/internal/cli"
)

var (
	flagAPIURL string
	flagAPIKey string
	flagLocal  bool
	flagJSON   bool
)

var rootCmd = &cobra.Command{
	Use:           "onboarding-cli",
	Short:         "Employee onboarding from plain-language instructions",
	Long:          "onboarding-cli submits onboarding instructions such as \"onboard Jane Doe, jane@example.com as developer in engineering\" and inspects the resulting employees, assets and runs.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "API base URL (default: ONBOARDING_API_URL, active profile, or "+cli.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key (default: ONBOARDING_API_KEY or active profile)")
	rootCmd.PersistentFlags().BoolVar(&flagLocal, "local", false, "Run against an in-process simulated stack instead of the API")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print raw JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
