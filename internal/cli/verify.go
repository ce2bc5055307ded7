package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/pipeline"
	"github.com/veridict/veridict/internal/render"
)

var (
	outJSON          string
	outMD            string
	timeout          time.Duration
	provider         string
	embedModel       string
	baseURL          string
	citationStyle    string
	fakeEmbedder     bool
	noCache          bool
	supportThreshold float64
	ratioLow         float64
	ratioHigh        float64
	coverage         float64
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <request.json>",
	Short: "Verify one generated answer against its evidence",
	Long: `Verify reads a single verification request (question, answer text with
citation markers, ordered evidence list) and decides whether the answer is
trustworthy enough to display:
- Resolve every [En] citation marker against the evidence list
- Split the answer into claims, each carrying its citations
- Score claims against their cited passages by embedding similarity
- Aggregate support ratio and citation coverage
- Return supported, partially_supported, or refused

Pass "-" to read the request from stdin.

Example:
  veridict verify request.json
  veridict verify request.json --json result.json --md result.md
  veridict verify request.json --fake-embedder --style ieee`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().StringVar(&citationStyle, "style", "canonical", "citation display style (canonical, ieee, nature, apa)")

	// Embedding flags
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().StringVar(&provider, "provider", "openai", "embedding provider (openai, ollama)")
	verifyCmd.Flags().StringVar(&embedModel, "model", "", "embedding model name (provider default if empty)")
	verifyCmd.Flags().StringVar(&baseURL, "base-url", "", "embedding backend base URL")
	verifyCmd.Flags().BoolVar(&fakeEmbedder, "fake-embedder", false, "use the deterministic offline embedder (no backend calls)")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")

	// Threshold flags
	verifyCmd.Flags().Float64Var(&supportThreshold, "support-threshold", 0.35, "per-claim similarity threshold")
	verifyCmd.Flags().Float64Var(&ratioLow, "ratio-low", 0.4, "support ratio below which the answer is refused")
	verifyCmd.Flags().Float64Var(&ratioHigh, "ratio-high", 0.75, "support ratio required for a fully supported verdict")
	verifyCmd.Flags().Float64Var(&coverage, "coverage", 0.6, "citation coverage required for a fully supported verdict")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := readRequest(args[0])
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying answer against %d evidence passages\n", len(req.EvidenceList))
	}

	result, err := p.Verify(ctx, req)
	if err != nil {
		return reportError(err)
	}

	renderer := render.NewRenderer()
	if outJSON != "" {
		if err := renderer.WriteJSON(result, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.WriteMarkdown(result, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.Summary(result)
	return nil
}

// readRequest loads a VerifyRequest from a file path or stdin ("-").
func readRequest(path string) (*model.VerifyRequest, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}

	var req model.VerifyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return &req, nil
}

// buildConfig assembles the pipeline configuration from flags and env.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Thresholds.Support = supportThreshold
	cfg.Thresholds.RatioLow = ratioLow
	cfg.Thresholds.RatioHigh = ratioHigh
	cfg.Thresholds.Coverage = coverage
	cfg.Output.Verbose = verbose
	cfg.Output.CitationStyle = citationStyle
	cfg.Cache.Enabled = !noCache

	if fakeEmbedder {
		cfg.Embedding.Provider = "fake"
		return cfg, nil
	}

	cfg.Embedding.Provider = provider
	if embedModel != "" {
		cfg.Embedding.Model = embedModel
	}
	if baseURL != "" {
		cfg.Embedding.BaseURL = baseURL
	}

	switch provider {
	case "openai":
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if url := os.Getenv("OLLAMA_BASE_URL"); url != "" && cfg.Embedding.BaseURL == "" {
			cfg.Embedding.BaseURL = url
		}
	}

	return cfg, nil
}

// reportError prints the structured error contract before failing, so the
// upstream caller can distinguish contract violations from infrastructure
// faults without parsing prose.
func reportError(err error) error {
	var perr *model.PipelineError
	if errors.As(err, &perr) {
		if data, jsonErr := json.Marshal(perr); jsonErr == nil {
			fmt.Fprintln(os.Stderr, string(data))
		}
	}
	return err
}
