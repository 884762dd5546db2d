// Command jobctl talks to a running job service over HTTP.
//
// Usage:
//
//	jobctl submit --work-order-id WO-123     Submit a job
//	jobctl status <job-id>                   Show job status
//	jobctl results <job-id>                  Fetch job results
//	jobctl dlq list                          Inspect dead-lettered jobs
//	jobctl version                           Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jobctl",
		Short: "Submit and inspect asynchronous jobs",
		Long: `jobctl submits work orders to the job service and polls their progress.

Submit a work order, then poll until it reaches a terminal status:

    jobctl submit --work-order-id WO-123
    jobctl status 3f8a...
    jobctl results 3f8a...`,
	}

	defaultAddr := os.Getenv("JOBSVC_ADDR")
	if defaultAddr == "" {
		defaultAddr = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().String("addr", defaultAddr, "Base URL of the job service API")

	rootCmd.AddCommand(
		newSubmitCmd(),
		newStatusCmd(),
		newResultsCmd(),
		newDLQCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jobctl %s\n", getVersion())
		},
	}
}
