package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/okulov/attestor/internal/model"
	"github.com/okulov/attestor/internal/verify"
	"github.com/okulov/attestor/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchFile        string
	batchOut         string
	batchConcurrency int
	batchTimeout     time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Cross-verify multiple findings from a JSON file",
	Long: `Batch verifies every finding in a JSON file concurrently. The news-archive
rate governor is shared across the whole batch, so archive requests stay
serialized no matter how many findings run in parallel.

Input format:
  {"findings": [{"quote": "...", "issues": ["misinformation"]}],
   "page_context": {"topics": ["vaccines"]}}

Example:
  attestor batch --file findings.json --concurrency 3 --out evidence.json`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchFile, "file", "", "findings JSON file (required)")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "write evidence JSON array to file (default: stdout)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "concurrent verifications")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")

	_ = batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	file, err := worker.ReadFindingsFile(batchFile)
	if err != nil {
		return fmt.Errorf("read findings: %w", err)
	}

	factCheckKey, llmKey := credentialsFromEnv()
	creds := model.Credentials{FactCheckKey: factCheckKey, LLMKey: llmKey}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying %d findings (concurrency %d)\n", len(file.Findings), batchConcurrency)
	}

	engine := verify.NewEngine(model.DefaultConfig())
	processor := worker.NewBatchProcessor(engine, creds, batchConcurrency)
	evidence := processor.ProcessFindings(ctx, file.Findings, file.PageContext)

	if verbose {
		for i, ev := range evidence {
			fmt.Fprintf(os.Stderr, "✓ [%d] %s (%s)\n", i, ev.Status.Code, ev.Status.Confidence)
		}
	}

	data, err := json.MarshalIndent(evidence, "", "  ")
	if err != nil {
		return fmt.Errorf("encode evidence: %w", err)
	}
	return writeOutput(data, batchOut)
}
