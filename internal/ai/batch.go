package ai

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// batchSize caps in-flight calls against the external service.
const batchSize = 10

// SentimentCounts is the outcome of a batch sentiment classification.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// TagCount is one aggregated tag with its majority sentiment.
type TagCount struct {
	Tag       string `json:"tag"`
	Count     int    `json:"count"`
	Sentiment string `json:"sentiment"`
}

// forEachBatched runs fn over every index with at most batchSize calls in
// flight. A failure of any single call never affects the others.
func forEachBatched(n int, fn func(i int)) {
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				fn(i)
			}(i)
		}
		wg.Wait()
	}
}

// ClassifyBatch classifies every text and tallies sentiment counts. The
// result always covers exactly len(texts) inputs; individual failures
// count as neutral.
func ClassifyBatch(ctx context.Context, c Classifier, texts []string) SentimentCounts {
	results := make([]string, len(texts))
	forEachBatched(len(texts), func(i int) {
		results[i] = c.ClassifySentiment(ctx, texts[i])
	})

	var counts SentimentCounts
	for _, s := range results {
		switch s {
		case SentimentPositive:
			counts.Positive++
		case SentimentNegative:
			counts.Negative++
		default:
			counts.Neutral++
		}
	}
	return counts
}

// CollectTags extracts tags per text and aggregates counts per lowercased
// tag, assigning each tag the majority sentiment among its occurrences.
// Sorted by count descending.
func CollectTags(ctx context.Context, c Classifier, texts []string) []TagCount {
	if len(texts) == 0 {
		return nil
	}
	perText := make([][]TagSentiment, len(texts))
	forEachBatched(len(texts), func(i int) {
		perText[i] = c.ExtractTags(ctx, texts[i])
	})

	type tally struct {
		count      int
		sentiments map[string]int
	}
	tallies := map[string]*tally{}
	var order []string
	for _, tags := range perText {
		for _, ts := range tags {
			tag := strings.ToLower(strings.TrimSpace(ts.Tag))
			if tag == "" || ts.Sentiment == "" {
				continue
			}
			tl, ok := tallies[tag]
			if !ok {
				tl = &tally{sentiments: map[string]int{}}
				tallies[tag] = tl
				order = append(order, tag)
			}
			tl.count++
			tl.sentiments[ts.Sentiment]++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		tl := tallies[tag]
		best, bestCount := SentimentNeutral, -1
		for _, s := range []string{SentimentPositive, SentimentNeutral, SentimentNegative} {
			if tl.sentiments[s] > bestCount {
				best, bestCount = s, tl.sentiments[s]
			}
		}
		out = append(out, TagCount{Tag: tag, Count: tl.count, Sentiment: best})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Stock phrases served when no external service is configured.
var (
	stockConcerns = []string{
		"Delayed timeline",
		"Poor material quality",
		"Lack of safety measures",
		"Environmental impact",
	}
	stockPraises = []string{
		"Efficient work",
		"Good communication",
		"Quality construction",
		"Community involvement",
	}
)

// TopPhrases extracts the main concern or praise per text and returns the
// top 5 phrases by frequency, lowercased. Without a live service it falls
// back to a fixed stock list.
func TopPhrases(ctx context.Context, c Classifier, texts []string, intent string) []string {
	if !c.Enabled() {
		if intent == IntentPraise {
			return stockPraises
		}
		return stockConcerns
	}
	if len(texts) == 0 {
		return nil
	}

	phrases := make([]string, len(texts))
	forEachBatched(len(texts), func(i int) {
		phrases[i] = c.ExtractPhrase(ctx, texts[i], intent)
	})

	freq := map[string]int{}
	var order []string
	for _, p := range phrases {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			continue
		}
		if _, ok := freq[key]; !ok {
			order = append(order, key)
		}
		freq[key]++
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })
	if len(order) > 5 {
		order = order[:5]
	}
	return order
}
