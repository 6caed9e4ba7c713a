package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okulov/attestor/internal/model"
)

// Verifier runs one finding through the cross-verification engine
type Verifier interface {
	Verify(ctx context.Context, f model.Finding, page *model.PageContext, creds model.Credentials) *model.FindingEvidence
}

// verifyOutcome pairs one finding's evidence with its input position
type verifyOutcome struct {
	index    int
	evidence *model.FindingEvidence
}

// BatchProcessor verifies multiple findings concurrently. The engine's rate
// governor stays shared across the whole batch.
type BatchProcessor struct {
	verifier    Verifier
	creds       model.Credentials
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(verifier Verifier, creds model.Credentials, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &BatchProcessor{
		verifier:    verifier,
		creds:       creds,
		concurrency: concurrency,
	}
}

// ProcessFindings verifies every finding and returns evidence in input order
func (b *BatchProcessor) ProcessFindings(ctx context.Context, findings []model.Finding, page *model.PageContext) []*model.FindingEvidence {
	if len(findings) == 0 {
		return []*model.FindingEvidence{}
	}

	pool := NewPool[verifyOutcome](b.concurrency)
	pool.Start()

	for i, f := range findings {
		i, f := i, f
		pool.Submit(func(ctx context.Context) verifyOutcome {
			return verifyOutcome{
				index:    i,
				evidence: b.verifier.Verify(ctx, f, page, b.creds),
			}
		})
	}

	evidence := make([]*model.FindingEvidence, len(findings))
	for _, out := range pool.Wait() {
		evidence[out.index] = out.evidence
	}
	return evidence
}

// FindingsFile is the batch input format
type FindingsFile struct {
	Findings    []model.Finding    `json:"findings"`
	PageContext *model.PageContext `json:"page_context,omitempty"`
}

// ReadFindingsFile loads findings from a JSON file
func ReadFindingsFile(path string) (*FindingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var file FindingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode findings: %w", err)
	}
	if len(file.Findings) == 0 {
		return nil, fmt.Errorf("no findings in %s", path)
	}
	return &file, nil
}
