// Package pipeline wires the verification stages into one synchronous,
// stateless call per request.
package pipeline

import (
	"context"
	"fmt"

	"github.com/veridict/veridict/internal/aggregate"
	"github.com/veridict/veridict/internal/assemble"
	"github.com/veridict/veridict/internal/citation"
	"github.com/veridict/veridict/internal/decision"
	"github.com/veridict/veridict/internal/embedding"
	"github.com/veridict/veridict/internal/model"
	"github.com/veridict/veridict/internal/render"
	"github.com/veridict/veridict/internal/segment"
	"github.com/veridict/veridict/internal/verify"
)

// Pipeline composes parser, segmenter, verifier, aggregator, decision
// engine, and assembler through straight-line calls over immutable values.
// No component retains mutable state across requests, so one Pipeline
// serves concurrent requests without coordination.
type Pipeline struct {
	parser     *citation.Parser
	segmenter  *segment.Segmenter
	verifier   *verify.Verifier
	aggregator *aggregate.Aggregator
	assembler  *assemble.Assembler
	config     *model.Config
}

// NewPipeline creates a pipeline, building the embedding backend from
// configuration.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := embedding.NewClient(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	return NewPipelineWithEmbedder(cfg, embedding.NewService(client, cfg)), nil
}

// NewPipelineWithEmbedder creates a pipeline around an existing embedder.
// Tests and offline mode inject deterministic embedders here.
func NewPipelineWithEmbedder(cfg *model.Config, embedder verify.Embedder) *Pipeline {
	style := render.ParseStyle(cfg.Output.CitationStyle)
	return &Pipeline{
		parser:     citation.NewParser(),
		segmenter:  segment.NewSegmenter(),
		verifier:   verify.NewVerifier(embedder, cfg.Thresholds.Support, cfg.Concurrency.ScoringWorkers),
		aggregator: aggregate.NewAggregator(),
		assembler:  assemble.NewAssembler(style),
		config:     cfg,
	}
}

// Verify runs one request through the full pipeline. Malformed input
// (unresolvable citations, unsegmentable answers) surfaces as a structured
// error; insufficient evidence never does — abstention is a normal,
// successful refused verdict.
func (p *Pipeline) Verify(ctx context.Context, req *model.VerifyRequest) (*model.VerificationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passages := model.BuildPassages(req.EvidenceList)

	// An empty evidence list refuses regardless of answer content, so the
	// answer is never parsed: its citations have nothing to resolve
	// against and its text must not leak into the result anyway.
	if len(passages) == 0 {
		return p.conclude(req.AnswerText, nil, passages, model.Metrics{}), nil
	}

	markers, err := p.parser.Parse(req.AnswerText, len(passages))
	if err != nil {
		return nil, err
	}

	claims, err := p.segmenter.Segment(req.AnswerText, markers)
	if err != nil {
		return nil, err
	}

	scored, err := p.verifier.Score(ctx, claims, passages)
	if err != nil {
		return nil, err
	}

	metrics := p.aggregator.Aggregate(scored, len(passages))
	return p.conclude(req.AnswerText, scored, passages, metrics), nil
}

// conclude runs the decision engine and assembles the terminal result.
// Each request gets a fresh engine; the terminal state belongs to the
// request, never to the pipeline.
func (p *Pipeline) conclude(answer string, claims []model.Claim, passages []model.EvidencePassage, m model.Metrics) *model.VerificationResult {
	engine := decision.NewEngine(p.config.Thresholds)
	d := engine.Evaluate(m)
	return p.assembler.Assemble(answer, claims, passages, m, d)
}
