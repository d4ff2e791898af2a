package signals

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"devradar/models"
)

// Classification is the external classifier's verdict on a signal.
type Classification struct {
	Category string
	Score    int
}

// Classifier re-classifies and re-scores a signal from its text.
type Classifier interface {
	Classify(ctx context.Context, title, summary string) (Classification, error)
}

// ChatClassifier drives an OpenAI-compatible chat-completions endpoint.
type ChatClassifier struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

func NewChatClassifier(apiKey, baseURL, model string, timeout time.Duration) *ChatClassifier {
	return &ChatClassifier{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Classify asks the model for {category, score}. Replies wrapped in
// prose or code fences are salvaged by extracting the first JSON object
// substring.
func (c *ChatClassifier) Classify(ctx context.Context, title, summary string) (Classification, error) {
	prompt := fmt.Sprintf(`Analyze this tech signal and categorize it:

Title: %s
Content: %s

Return a JSON object with:
{
  "category": "one of: release, vulnerability, changelog, breaking_change, deprecation, new_feature",
  "score": "importance score 0-100 based on impact to developers"
}

Return ONLY valid JSON.`, title, truncate(summary, 1000))

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Classification{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return Classification{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classification{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Classification{}, fmt.Errorf("classifier API error (%d): %s", resp.StatusCode, string(msg))
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return Classification{}, err
	}
	if len(reply.Choices) == 0 {
		return Classification{}, fmt.Errorf("empty classifier response")
	}

	return parseClassification(reply.Choices[0].Message.Content)
}

// parseClassification pulls {category, score} out of the model's text
// reply. The score survives arriving as a number or a quoted string.
func parseClassification(text string) (Classification, error) {
	obj, ok := extractJSONObject(text)
	if !ok {
		return Classification{}, fmt.Errorf("no JSON object in classifier reply")
	}

	var parsed struct {
		Category string          `json:"category"`
		Score    json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return Classification{}, fmt.Errorf("parsing classifier reply: %w", err)
	}

	return Classification{
		Category: parsed.Category,
		Score:    clampScore(coerceScore(parsed.Score)),
	}, nil
}

func coerceScore(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 50
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 50
}

// extractJSONObject returns the first '{' through the last '}' of s.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// Enrich blends the classifier's score into the signal, weighting the
// AI score by weight (0.5 reproduces a plain average). The AI category
// is recorded in the payload but never replaces SignalType. Any
// classifier failure returns the signal unchanged.
func Enrich(ctx context.Context, classifier Classifier, sig models.Signal, weight float64, logger *logrus.Logger) models.Signal {
	result, err := classifier.Classify(ctx, sig.Title, sig.Summary)
	if err != nil {
		if logger != nil {
			logger.WithError(err).WithField("entity_ref", sig.EntityRef).Debug("Signal enrichment skipped")
		}
		return sig
	}

	blended := weight*float64(result.Score) + (1-weight)*float64(sig.Score)
	sig.Score = clampScore(int(math.Round(blended)))

	if result.Category != "" {
		sig.RawPayload = payloadWithField(sig.RawPayload, "aiCategory", result.Category)
	}
	return sig
}

func payloadWithField(payload []byte, key string, value interface{}) []byte {
	fields := map[string]interface{}{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return payload
		}
	}
	fields[key] = value
	data, err := json.Marshal(fields)
	if err != nil {
		return payload
	}
	return data
}
