package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var playersCategory string

func init() {
	playersCmd.Flags().StringVar(&playersCategory, "category", "", "Filter players by category")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user [username]",
	Short: "Create a user account with the default budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"username":%q}`, args[0])
		return performPostRequestWithBody("/users", body)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/players"
		if playersCategory != "" {
			endpoint += "?category=" + url.QueryEscape(playersCategory)
		}
		return performGetRequest(endpoint)
	},
}

var teamCmd = &cobra.Command{
	Use:   "team [accountID]",
	Short: "Show an account's roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/team/" + url.PathEscape(args[0]))
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show accounts ranked by total points",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the tournament-wide statistics summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/admin/tournament/summary")
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Backfill valuations for players missing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/admin/refresh")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	return performPostRequestWithBody(endpoint, "{}")
}

func performPostRequestWithBody(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
