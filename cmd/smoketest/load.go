package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type loadReport struct {
	Requests  int
	Succeeded int
	Failed    int
	P50       time.Duration
	P95       time.Duration
	Max       time.Duration
}

func loadCmd(client func() *resty.Client) *cobra.Command {
	var (
		gateway     string
		requests    int
		concurrency int
		maxP95      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Fire concurrent payment creation requests and report latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runLoad(cmd.Context(), client(), gateway, requests, concurrency)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), gateway, report)

			if report.Requests > 0 && report.Failed*10 > report.Requests {
				return fmt.Errorf("error rate above 10%%: %d/%d failed", report.Failed, report.Requests)
			}
			if maxP95 > 0 && report.P95 > maxP95 {
				return fmt.Errorf("p95 %s above threshold %s", report.P95, maxP95)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&gateway, "gateway", "g", "stripe", "Gateway to create payments on (stripe, paypal, gopay)")
	cmd.Flags().IntVarP(&requests, "requests", "n", 100, "Total number of requests")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 10, "Concurrent workers")
	cmd.Flags().DurationVar(&maxP95, "max-p95", 2*time.Second, "Fail when the p95 latency exceeds this value (0 disables)")
	return cmd
}

func runLoad(ctx context.Context, c *resty.Client, gateway string, requests, concurrency int) (loadReport, error) {
	if requests <= 0 || concurrency <= 0 {
		return loadReport{}, fmt.Errorf("requests and concurrency must be positive")
	}

	var (
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, requests)
		report    = loadReport{Requests: requests}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < requests; i++ {
		i := i
		g.Go(func() error {
			now := time.Now()
			body := map[string]any{
				"amount":        rand.Intn(5000) + 100,
				"currency":      "CZK",
				"description":   fmt.Sprintf("Load payment %d", now.UnixNano()),
				"customerEmail": fmt.Sprintf("load%d@example.com", i),
			}
			var out struct {
				Success bool `json:"success"`
			}
			resp, err := c.R().SetContext(gctx).SetBody(body).SetResult(&out).SetError(&out).Post("/api/payment/create/" + gateway)
			took := time.Since(now)

			mu.Lock()
			defer mu.Unlock()
			latencies = append(latencies, took)
			if err == nil && resp.IsSuccess() && out.Success {
				report.Succeeded++
			} else {
				report.Failed++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return loadReport{}, err
	}

	slices.Sort(latencies)
	report.P50 = percentile(latencies, 50)
	report.P95 = percentile(latencies, 95)
	if len(latencies) > 0 {
		report.Max = latencies[len(latencies)-1]
	}
	return report, nil
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p + 99) / 100
	if idx < 1 {
		idx = 1
	}
	return sorted[idx-1]
}

func printReport(out io.Writer, gateway string, r loadReport) {
	fmt.Fprintf(out, "gateway=%s requests=%d ok=%d failed=%d p50=%s p95=%s max=%s\n",
		gateway, r.Requests, r.Succeeded, r.Failed, r.P50, r.P95, r.Max)
}
