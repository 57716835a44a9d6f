package ai

import "context"

// Null is the classifier used when no external-service credential is
// configured. Every operation returns a fixed fallback.
type Null struct{}

func (n *Null) Enabled() bool { return false }

func (n *Null) ClassifySentiment(ctx context.Context, text string) string {
	return SentimentNeutral
}

func (n *Null) ExtractItems(ctx context.Context, text string) []ExtractedItem {
	return nil
}

func (n *Null) ExtractTags(ctx context.Context, text string) []TagSentiment {
	return nil
}

func (n *Null) ExtractPhrase(ctx context.Context, text, intent string) string {
	return ""
}

func (n *Null) AnalyzeReport(ctx context.Context, description string, hasAttachment bool) ReportAnalysis {
	return ReportAnalysis{
		Severity:      5,
		Summary:       "AI analysis unavailable. This is a default summary.",
		IsValidReport: true,
		Tags:          []string{"unanalyzed"},
	}
}
