package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func newSubmitCmd() *cobra.Command {
	var workOrderID string
	var file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a work order for processing",
		Long: `Submit sends a work order to the job service and prints the accepted job.

Examples:
    jobctl submit --work-order-id WO-123
    jobctl submit --file workorder.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			return runSubmit(client, workOrderID, file)
		},
	}

	cmd.Flags().StringVar(&workOrderID, "work-order-id", "", "Work order identifier (builds a minimal submission)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a JSON submission document")

	return cmd
}

func runSubmit(client *apiClient, workOrderID, file string) error {
	var body []byte

	switch {
	case file != "" && workOrderID != "":
		return fmt.Errorf("use either --file or --work-order-id, not both")

	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read submission: %w", err)
		}
		body = data

	case workOrderID != "":
		data, err := json.Marshal(map[string]string{"workOrderId": workOrderID})
		if err != nil {
			return err
		}
		body = data

	default:
		return fmt.Errorf("either --file or --work-order-id is required")
	}

	status, respBody, err := client.do(http.MethodPost, "/start", body)
	if err != nil {
		return err
	}

	printBody(respBody)

	if status != http.StatusAccepted {
		return fmt.Errorf("submission rejected with status %d", status)
	}

	return nil
}
