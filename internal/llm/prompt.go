package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matheusbnas/dashboard-financeiro-AI/internal/models"
)

// buildPrompt asks the model to label every description with exactly one
// category from the taxonomy and reply with a bare JSON array so the answer
// parses without provider-specific handling.
func buildPrompt(descriptions []string, categories []models.Category) string {
	var b strings.Builder

	b.WriteString("You are a data analyst specialized in categorizing personal bank-card transactions.\n\n")
	b.WriteString("Available categories:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Assign exactly ONE category from the list to each transaction.\n")
	b.WriteString("- Be consistent across similar descriptions.\n")
	b.WriteString("- If unsure, use \"Other\".\n")
	b.WriteString("- Respond ONLY with a JSON array of category names, one per transaction, in order. No explanations.\n")
	b.WriteString("\nTransactions:\n")
	for i, d := range descriptions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
	}
	b.WriteString("\nJSON array:")

	return b.String()
}

// parseLabels extracts the JSON array of labels from a model reply,
// tolerating surrounding prose and markdown code fences.
func parseLabels(reply string, want int) ([]string, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON array in reply", ErrInvalidCategoryLabel)
	}

	var labels []string
	if err := json.Unmarshal([]byte(reply[start:end+1]), &labels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategoryLabel, err)
	}
	if len(labels) != want {
		return nil, fmt.Errorf("%w: got %d labels, want %d", ErrInvalidCategoryLabel, len(labels), want)
	}

	for i, label := range labels {
		labels[i] = strings.TrimSpace(label)
	}
	return labels, nil
}
