package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			return runStatus(client, args[0])
		},
	}
}

func runStatus(client *apiClient, jobID string) error {
	status, body, err := client.do(http.MethodGet, "/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return err
	}

	printBody(body)

	if status != http.StatusOK {
		return fmt.Errorf("status lookup failed with status %d", status)
	}

	return nil
}
