package render

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/veridict/veridict/internal/model"
)

// Renderer writes verification results to files and the terminal.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WriteJSON writes the result as indented JSON.
func (r *Renderer) WriteJSON(result *model.VerificationResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// WriteMarkdown writes a human-readable result report.
func (r *Renderer) WriteMarkdown(result *model.VerificationResult, path string) error {
	var b strings.Builder

	b.WriteString("# Verification Result\n\n")
	fmt.Fprintf(&b, "- **Verdict:** %s\n", result.Verdict)
	if result.AbstentionReason != "" {
		fmt.Fprintf(&b, "- **Reason:** %s\n", result.AbstentionReason)
	}
	fmt.Fprintf(&b, "- **Support ratio:** %.2f\n", result.OverallSupportRatio)
	fmt.Fprintf(&b, "- **Citation coverage:** %.2f\n\n", result.CitationCoverage)

	b.WriteString("## Answer\n\n")
	b.WriteString(result.DisplayedAnswer)
	b.WriteString("\n\n## Claims\n\n")
	b.WriteString("| # | Claim | Citations | Score | Supported |\n")
	b.WriteString("|---|-------|-----------|-------|-----------|\n")
	for i, c := range result.Claims {
		cites := strings.Join(c.CitedEvidenceIDs, ", ")
		if cites == "" {
			cites = "—"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %.2f | %v |\n", i+1, escapeCell(c.Text), cites, c.SupportScore, c.Supported)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// Summary prints a one-screen result summary to stdout.
func (r *Renderer) Summary(result *model.VerificationResult) {
	fmt.Printf("Verdict: %s", result.Verdict)
	if result.AbstentionReason != "" {
		fmt.Printf(" (%s)", result.AbstentionReason)
	}
	fmt.Println()
	fmt.Printf("Support ratio: %.2f   Citation coverage: %.2f   Claims: %d\n",
		result.OverallSupportRatio, result.CitationCoverage, len(result.Claims))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
