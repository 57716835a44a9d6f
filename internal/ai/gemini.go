package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	sentimentModel  = "gemini-1.5-flash"
	extractionModel = "gemini-2.5-flash"
)

// Gemini calls the Google Generative Language API over HTTP.
type Gemini struct {
	APIKey  string
	BaseURL string // overridable for tests
	Client  *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Enabled() bool { return true }

// generate sends one prompt and returns the raw model text.
func (g *Gemini) generate(ctx context.Context, model, prompt string) (string, error) {
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	base := g.BaseURL
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", base, model, g.APIKey)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini: status %d body: %s", resp.StatusCode, respBody)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// stripFences removes markdown code-fence markers the model wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.Trim(s, "`")
	s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	return strings.TrimSpace(s)
}

func (g *Gemini) ClassifySentiment(ctx context.Context, text string) string {
	prompt := fmt.Sprintf(`Classify the sentiment of the following comment about a public infrastructure project.
Respond with exactly one word: positive, neutral or negative. No other text.
Comment: """%s"""`, text)

	out, err := g.generate(ctx, sentimentModel, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("sentiment classification failed, defaulting to neutral")
		return SentimentNeutral
	}
	switch strings.ToLower(strings.TrimSpace(stripFences(out))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func (g *Gemini) ExtractItems(ctx context.Context, text string) []ExtractedItem {
	prompt := fmt.Sprintf(`Extract the inventory items mentioned in the following project update, with quantities.
Respond with a JSON array of objects in this format, no extra text:
[
  { "name": "string", "quantity": number }
]
If no items are mentioned, respond with an empty JSON array.
Update: """%s"""`, text)

	out, err := g.generate(ctx, extractionModel, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("item extraction failed")
		return nil
	}
	var items []ExtractedItem
	if err := json.Unmarshal([]byte(stripFences(out)), &items); err != nil {
		log.Warn().Err(err).Msg("item extraction returned unparseable JSON")
		return nil
	}
	return items
}

func (g *Gemini) ExtractTags(ctx context.Context, text string) []TagSentiment {
	prompt := fmt.Sprintf(`Extract up to 3 relevant tags (keywords or topics) from the following comment and classify each as "positive", "neutral", or "negative" based on the sentiment in context.
Respond with a JSON array of objects in this format:
[
  { "tag": "string", "sentiment": "positive|neutral|negative" }
]
Only respond with the JSON array, no extra text.
Comment: """%s"""`, text)

	out, err := g.generate(ctx, extractionModel, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("tag extraction failed")
		return nil
	}
	var tags []TagSentiment
	if err := json.Unmarshal([]byte(stripFences(out)), &tags); err != nil {
		return nil
	}
	if len(tags) > 3 {
		tags = tags[:3]
	}
	return tags
}

func (g *Gemini) ExtractPhrase(ctx context.Context, text, intent string) string {
	kind := "concern or complaint"
	if intent == IntentPraise {
		kind = "praise or compliment"
	}
	prompt := fmt.Sprintf(`From the following comment, extract the main %s (if any) as a short phrase. If none, return an empty array.
Respond with a JSON array of short phrases, no extra text.
Comment: """%s"""`, kind, text)

	out, err := g.generate(ctx, extractionModel, prompt)
	if err != nil {
		log.Warn().Err(err).Str("intent", intent).Msg("phrase extraction failed")
		return ""
	}
	var phrases []string
	if err := json.Unmarshal([]byte(stripFences(out)), &phrases); err != nil || len(phrases) == 0 {
		return ""
	}
	return phrases[0]
}

func (g *Gemini) AnalyzeReport(ctx context.Context, description string, hasAttachment bool) ReportAnalysis {
	evidence := "does not include supporting evidence"
	if hasAttachment {
		evidence = "includes supporting documents or images"
	}
	prompt := fmt.Sprintf(`Analyze the following corruption report and provide:
1. A severity score from 1-10 (where 10 is most severe)
2. A brief summary of the allegation (max 100 words)
3. Whether this appears to be a valid corruption report (true/false)
4. Key tags related to the type of corruption

The report %s.

Report: "%s"

Format your response as a JSON object with the following fields:
{
  "severity": number,
  "summary": "string",
  "isValidReport": boolean,
  "tags": ["tag1", "tag2"]
}

Only respond with the JSON, no other text.`, evidence, description)

	fallback := ReportAnalysis{
		Severity:      5,
		Summary:       "AI analysis encountered an error.",
		IsValidReport: true,
		Tags:          []string{"analysis_error"},
	}

	out, err := g.generate(ctx, sentimentModel, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("report analysis failed")
		return fallback
	}
	var result ReportAnalysis
	if err := json.Unmarshal([]byte(stripFences(out)), &result); err != nil {
		log.Warn().Err(err).Msg("report analysis returned unparseable JSON")
		fallback.Summary = "AI analysis failed to process the response correctly."
		return fallback
	}
	if result.Severity < 1 {
		result.Severity = 5
	}
	if result.Severity > 10 {
		result.Severity = 10
	}
	if result.Summary == "" {
		result.Summary = "No summary provided"
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	return result
}
