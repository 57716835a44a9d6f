package ai

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyClassifier fails (degrades to neutral) for every odd input index.
type flakyClassifier struct {
	calls int64
}

func (f *flakyClassifier) Enabled() bool { return true }

func (f *flakyClassifier) ClassifySentiment(ctx context.Context, text string) string {
	n := atomic.AddInt64(&f.calls, 1)
	if n%2 == 0 {
		// simulates an adapter-internal failure already degraded to neutral
		return SentimentNeutral
	}
	return SentimentPositive
}

func (f *flakyClassifier) ExtractItems(ctx context.Context, text string) []ExtractedItem { return nil }

func (f *flakyClassifier) ExtractTags(ctx context.Context, text string) []TagSentiment {
	return []TagSentiment{{Tag: " Roads ", Sentiment: SentimentNegative}}
}

func (f *flakyClassifier) ExtractPhrase(ctx context.Context, text, intent string) string {
	return "delayed work"
}

func (f *flakyClassifier) AnalyzeReport(ctx context.Context, description string, hasAttachment bool) ReportAnalysis {
	return ReportAnalysis{Severity: 5, IsValidReport: true}
}

func TestClassifyBatch_CoversEveryInput(t *testing.T) {
	texts := make([]string, 25)
	for i := range texts {
		texts[i] = fmt.Sprintf("comment %d", i)
	}
	c := &flakyClassifier{}
	counts := ClassifyBatch(context.Background(), c, texts)

	assert.Equal(t, 25, counts.Positive+counts.Neutral+counts.Negative)
	assert.Equal(t, int64(25), c.calls)
	assert.NotZero(t, counts.Neutral, "degraded calls count as neutral")
}

func TestClassifyBatch_Empty(t *testing.T) {
	counts := ClassifyBatch(context.Background(), &Null{}, nil)
	assert.Equal(t, SentimentCounts{}, counts)
}

func TestCollectTags_AggregatesLowercased(t *testing.T) {
	c := &flakyClassifier{}
	tags := CollectTags(context.Background(), c, []string{"a", "b", "c"})
	require.Len(t, tags, 1)
	assert.Equal(t, "roads", tags[0].Tag)
	assert.Equal(t, 3, tags[0].Count)
	assert.Equal(t, SentimentNegative, tags[0].Sentiment)
}

func TestTopPhrases_StockListWithoutCredential(t *testing.T) {
	concerns := TopPhrases(context.Background(), &Null{}, []string{"anything"}, IntentConcern)
	assert.Equal(t, stockConcerns, concerns)

	praises := TopPhrases(context.Background(), &Null{}, nil, IntentPraise)
	assert.Equal(t, stockPraises, praises)
}

func TestTopPhrases_FrequencyOrdered(t *testing.T) {
	c := &flakyClassifier{}
	phrases := TopPhrases(context.Background(), c, []string{"a", "b"}, IntentConcern)
	require.Len(t, phrases, 1)
	assert.Equal(t, "delayed work", phrases[0])
}

func TestNullClassifier_Defaults(t *testing.T) {
	n := &Null{}
	ctx := context.Background()

	assert.False(t, n.Enabled())
	assert.Equal(t, SentimentNeutral, n.ClassifySentiment(ctx, "great work"))
	assert.Empty(t, n.ExtractItems(ctx, "bought 10 bags of cement"))
	assert.Empty(t, n.ExtractTags(ctx, "anything"))
	assert.Equal(t, "", n.ExtractPhrase(ctx, "anything", IntentConcern))

	report := n.AnalyzeReport(ctx, "officials diverted funds", false)
	assert.Equal(t, 5, report.Severity)
	assert.True(t, report.IsValidReport)
	assert.Equal(t, []string{"unanalyzed"}, report.Tags)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1,2]`, stripFences("`[1,2]`"))
	assert.Equal(t, `{"b":2}`, stripFences(`{"b":2}`))
}
