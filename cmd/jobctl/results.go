package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <job-id>",
		Short: "Fetch the results of a completed job",
		Long: `Results prints the result document of a completed job.

Jobs that are still queued or running are reported as not ready; poll
status until the job reaches a terminal state first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			return runResults(client, args[0])
		},
	}
}

func runResults(client *apiClient, jobID string) error {
	status, body, err := client.do(http.MethodGet, "/results/"+url.PathEscape(jobID), nil)
	if err != nil {
		return err
	}

	printBody(body)

	switch status {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		return fmt.Errorf("job is not ready yet")
	default:
		return fmt.Errorf("results lookup failed with status %d", status)
	}
}
