package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:     "smoketest",
		Short:   "Exercise a running payhub instance",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:3000", "Base URL of the payhub API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")

	client := func() *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json")
	}

	rootCmd.AddCommand(runCmd(client))
	rootCmd.AddCommand(loadCmd(client))
	return rootCmd
}
