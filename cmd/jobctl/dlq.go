package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newDLQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and replay dead-lettered jobs",
		Long: `DLQ operations act on jobs that exhausted their delivery budget.

Examples:
    jobctl dlq list
    jobctl dlq replay --limit 5`,
	}

	cmd.AddCommand(
		newDLQListCmd(),
		newDLQReplayCmd(),
	)

	return cmd
}

func newDLQListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dead-lettered jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			return runDLQList(client, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of entries to fetch")

	return cmd
}

func runDLQList(client *apiClient, limit int) error {
	status, body, err := client.do(http.MethodGet, fmt.Sprintf("/admin/dlq?limit=%d", limit), nil)
	if err != nil {
		return err
	}

	printBody(body)

	if status != http.StatusOK {
		return fmt.Errorf("dead-letter listing failed with status %d", status)
	}

	return nil
}

func newDLQReplayCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-enqueue dead-lettered jobs for another attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			return runDLQReplay(client, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of entries to replay")

	return cmd
}

func runDLQReplay(client *apiClient, limit int) error {
	body, err := json.Marshal(map[string]int{"limit": limit})
	if err != nil {
		return err
	}

	status, respBody, err := client.do(http.MethodPost, "/admin/dlq/replay", body)
	if err != nil {
		return err
	}

	printBody(respBody)

	if status != http.StatusOK {
		return fmt.Errorf("dead-letter replay failed with status %d", status)
	}

	return nil
}
