package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridict/veridict/internal/metrics"
	"github.com/veridict/veridict/internal/pipeline"
	"github.com/veridict/veridict/internal/worker"
)

var (
	batchTimeout     time.Duration
	batchConcurrency int
	batchOutJSON     string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <requests.jsonl>",
	Short: "Verify many answers concurrently and report faithfulness metrics",
	Long: `Batch reads one verification request per line (JSON Lines; blank lines
and # comments are skipped), verifies them concurrently, and prints
aggregate faithfulness metrics: claim support rate, refusal rate, and
unsupported claim rate.

Example:
  veridict batch eval_requests.jsonl --concurrency 8
  veridict batch eval_requests.jsonl --json results.jsonl --fake-embedder`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "overall batch timeout")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "concurrent verifications")
	batchCmd.Flags().StringVar(&batchOutJSON, "json", "", "output JSON-lines path for per-request results (optional)")

	// The embedding and threshold flags are shared with verify.
	batchCmd.Flags().StringVar(&provider, "provider", "openai", "embedding provider (openai, ollama)")
	batchCmd.Flags().StringVar(&embedModel, "model", "", "embedding model name (provider default if empty)")
	batchCmd.Flags().StringVar(&baseURL, "base-url", "", "embedding backend base URL")
	batchCmd.Flags().BoolVar(&fakeEmbedder, "fake-embedder", false, "use the deterministic offline embedder (no backend calls)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	batchCmd.Flags().Float64Var(&supportThreshold, "support-threshold", 0.35, "per-claim similarity threshold")
	batchCmd.Flags().Float64Var(&ratioLow, "ratio-low", 0.4, "support ratio below which the answer is refused")
	batchCmd.Flags().Float64Var(&ratioHigh, "ratio-high", 0.75, "support ratio required for a fully supported verdict")
	batchCmd.Flags().Float64Var(&coverage, "coverage", 0.6, "citation coverage required for a fully supported verdict")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = batchConcurrency

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)
	outcomes, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	// Stable output regardless of completion order.
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Line < outcomes[j].Line })

	tracker := metrics.NewTracker()
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "request %d: %v\n", o.Line, o.Err)
			continue
		}
		tracker.Update(o.Result)
	}

	if batchOutJSON != "" {
		if err := writeOutcomes(outcomes, batchOutJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote results: %s\n", batchOutJSON)
		}
	}

	summary := tracker.Compute()
	fmt.Printf("Requests: %d (%d failed)\n", len(outcomes), failed)
	fmt.Printf("Claim support rate:     %.4f\n", summary.ClaimSupportRate)
	fmt.Printf("Refusal rate:           %.4f\n", summary.RefusalRate)
	fmt.Printf("Unsupported claim rate: %.4f\n", summary.UnsupportedClaimRate)

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(outcomes))
	}
	return nil
}

// writeOutcomes writes one JSON result per line, matching input order.
func writeOutcomes(outcomes []*worker.VerifyOutcome, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	enc := json.NewEncoder(f)
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		if err := enc.Encode(o.Result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	return nil
}
