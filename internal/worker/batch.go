package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/veridict/veridict/internal/model"
)

// Verifier runs one verification request. Satisfied by pipeline.Pipeline.
type Verifier interface {
	Verify(ctx context.Context, req *model.VerifyRequest) (*model.VerificationResult, error)
}

// VerifyJob is one request queued for batch verification. Line records the
// request's position in the input file for error reporting.
type VerifyJob struct {
	Line     int
	Request  *model.VerifyRequest
	Verifier Verifier
}

// Execute runs the request through the pipeline.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	result, err := j.Verifier.Verify(ctx, j.Request)
	return &VerifyOutcome{
		Line:   j.Line,
		Result: result,
		Err:    err,
	}
}

// VerifyOutcome is the result of one batch verification.
type VerifyOutcome struct {
	Line   int
	Result *model.VerificationResult
	Err    error
}

// GetError returns the verification error, if any.
func (o *VerifyOutcome) GetError() error {
	return o.Err
}

// BatchProcessor verifies many requests concurrently.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessRequests verifies the given requests concurrently. Outcome order
// follows completion, not submission; each outcome carries its input line.
func (b *BatchProcessor) ProcessRequests(ctx context.Context, requests []*model.VerifyRequest) []*VerifyOutcome {
	if len(requests) == 0 {
		return []*VerifyOutcome{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Drain concurrently with submission: batches are routinely larger
	// than the pool's channel buffers.
	collected := make(chan []*VerifyOutcome, 1)
	go func() {
		outcomes := make([]*VerifyOutcome, 0, len(requests))
		for r := range pool.Results() {
			outcomes = append(outcomes, r.(*VerifyOutcome))
		}
		collected <- outcomes
	}()

	for i, req := range requests {
		pool.Submit(&VerifyJob{
			Line:     i + 1,
			Request:  req,
			Verifier: b.verifier,
		})
	}
	pool.Close()

	return <-collected
}

// ProcessFile reads JSON-lines requests from a file and verifies them.
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*VerifyOutcome, error) {
	requests, err := ReadRequestsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}
	return b.ProcessRequests(ctx, requests), nil
}

// ReadRequestsFromFile parses one VerifyRequest per line, skipping blank
// lines and # comments.
func ReadRequestsFromFile(path string) ([]*model.VerifyRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []*model.VerifyRequest

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var req model.VerifyRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			return nil, fmt.Errorf("line %d: parse request: %w", lineNo, err)
		}
		requests = append(requests, &req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}
