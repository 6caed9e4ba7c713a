package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/okulov/attestor/internal/cache"
	"github.com/okulov/attestor/internal/model"
	"github.com/okulov/attestor/internal/verify"
	"github.com/spf13/cobra"
)

var (
	quoteFlag      string
	correctionFlag string
	rationaleFlag  string
	issuesFlag     []string
	topicsFlag     []string
	entitiesFlag   []string
	summaryFlag    string
	tabFlag        string
	outFlag        string
	timeoutFlag    time.Duration
	noCacheFlag    bool
	auditFlag      bool
	rerankFlag     bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-verify a single flagged quote against public sources",
	Long: `Verify queries the fact-check registry, Wikipedia, Wikidata, PubMed and
the GDELT news archive for one finding, then classifies the evidence.

Example:
  attestor verify --quote "The bridge collapsed because of sabotage" --issues misinformation
  attestor verify --quote "..." --topics vaccines --rerank --audit --out evidence.json`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&quoteFlag, "quote", "", "verbatim quote to verify (required)")
	verifyCmd.Flags().StringVar(&correctionFlag, "correction", "", "suggested correction (misinformation findings)")
	verifyCmd.Flags().StringVar(&rationaleFlag, "rationale", "", "why the finding was flagged")
	verifyCmd.Flags().StringSliceVar(&issuesFlag, "issues", []string{"misinformation"}, "issue tags (misinformation, fallacy, bias)")
	verifyCmd.Flags().StringSliceVar(&topicsFlag, "topics", nil, "page-context topic keywords")
	verifyCmd.Flags().StringSliceVar(&entitiesFlag, "entities", nil, "page-context entity keywords")
	verifyCmd.Flags().StringVar(&summaryFlag, "summary", "", "page-context free-text summary")
	verifyCmd.Flags().StringVar(&tabFlag, "tab", "cli", "tab identifier for cache keying")
	verifyCmd.Flags().StringVar(&outFlag, "out", "", "write evidence JSON to file (default: stdout)")
	verifyCmd.Flags().DurationVar(&timeoutFlag, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "bypass the evidence cache")
	verifyCmd.Flags().BoolVar(&auditFlag, "audit", false, "probe evidence URLs for accessibility")
	verifyCmd.Flags().BoolVar(&rerankFlag, "rerank", true, "run the LLM relevance pass when OPENAI_API_KEY is set")

	_ = verifyCmd.MarkFlagRequired("quote")
}

// evidenceCache is shared across invocations within one process
var evidenceCache = cache.NewMemoryCache(15*time.Minute, 5*time.Minute)

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	finding := model.Finding{
		Quote:      quoteFlag,
		Correction: correctionFlag,
		Rationale:  rationaleFlag,
		Issues:     parseIssues(issuesFlag),
	}
	page := &model.PageContext{
		Summary:  summaryFlag,
		Topics:   topicsFlag,
		Entities: entitiesFlag,
	}

	cfg := model.DefaultConfig()
	cfg.Audit.Enabled = auditFlag

	factCheckKey, llmKey := credentialsFromEnv()
	if !rerankFlag {
		llmKey = ""
	}
	creds := model.Credentials{FactCheckKey: factCheckKey, LLMKey: llmKey}

	cacheKey := cache.Key(tabFlag, finding.Quote)
	if cfg.Cache.Enabled && !noCacheFlag {
		if data, found := evidenceCache.Get(cacheKey); found {
			if verbose {
				fmt.Fprintln(os.Stderr, "✓ Evidence served from cache")
			}
			return writeOutput(data, outFlag)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %q\n", finding.Quote)
		fmt.Fprintf(os.Stderr, "Fact-check registry configured: %v\n", factCheckKey != "")
		fmt.Fprintf(os.Stderr, "Relevance rerank enabled: %v\n", llmKey != "")
	}

	engine := verify.NewEngine(cfg)
	evidence := engine.Verify(ctx, finding, page, creds)

	if cfg.Audit.Enabled {
		auditor := verify.NewAuditor(cfg)
		evidence.Audit = auditor.Audit(ctx, evidence)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Verdict: %s (%s)\n", evidence.Status.Code, evidence.Status.Confidence)
		fmt.Fprintf(os.Stderr, "✓ Fact-checks: %d, corroboration sources: %d, news: %d\n",
			len(evidence.FactChecks.Matches), evidence.CorroborationSources(), len(evidence.News))
		for source, msg := range evidence.Errors {
			fmt.Fprintf(os.Stderr, "⚠ %s: %s\n", source, msg)
		}
	}

	data, err := json.MarshalIndent(evidence, "", "  ")
	if err != nil {
		return fmt.Errorf("encode evidence: %w", err)
	}

	if cfg.Cache.Enabled && !noCacheFlag {
		_ = evidenceCache.Set(cacheKey, data, cfg.Cache.TTL)
	}
	return writeOutput(data, outFlag)
}

func parseIssues(raw []string) []model.IssueType {
	var issues []model.IssueType
	for _, item := range raw {
		switch model.IssueType(strings.ToLower(strings.TrimSpace(item))) {
		case model.IssueMisinformation:
			issues = append(issues, model.IssueMisinformation)
		case model.IssueFallacy:
			issues = append(issues, model.IssueFallacy)
		case model.IssueBias:
			issues = append(issues, model.IssueBias)
		}
	}
	return issues
}

func writeOutput(data []byte, path string) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote evidence: %s\n", path)
	}
	return nil
}
