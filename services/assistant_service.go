package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const AssistantFallbackReply = "⚠️ Sorry, I'm having trouble. Please try again later."

// LanguageModel answers a free text prompt.
type LanguageModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type assistantRule struct {
	keywords []string
	reply    string
}

// Checked in order against the lower-cased message; first hit wins.
var assistantRules = []assistantRule{
	{
		keywords: []string{"book", "reserve", "table"},
		reply:    "To book a table:\n1. Go to the 'Book' tab\n2. Fill the form\n3. Get your Booking ID (RD-XXXXX)",
	},
	{
		keywords: []string{"check", "status", "booking id"},
		reply:    "Check bookings:\n1. Visit 'Check/Cancel' tab\n2. Enter Booking ID (e.g. RD-12345)\n3. View details",
	},
	{
		keywords: []string{"cancel", "delete"},
		reply:    "⚠️ Cancellation policy:\n- Free if cancelled 24h before\n- 50% charge within 24h\nGo to 'Check/Cancel' tab",
	},
	{
		keywords: []string{"hello", "hi", "hey"},
		reply:    "👋 Hello! I'm Royal Dine Bot. Ask about:\n- Booking tables\n- Checking reservations\n- Cancellations",
	},
	{
		keywords: []string{"hour", "time", "open"},
		reply:    "🕒 Restaurant hours:\n- Monday to Sunday: 11AM - 11PM\n- Happy Hour: 3PM-6PM (50% off drinks)",
	},
}

const assistantPrompt = `You're Royal Dine's assistant. Respond concisely (max 2 sentences) about:
- Table bookings (2-10 people)
- Booking status (require RD-XXXXX ID)
- Cancellation policy (24h notice)
- Restaurant hours (11AM-11PM daily)
- Location: 123 Food Street, Bangalore

User asked: %s`

// AssistantService answers guest chat messages from a rule table and falls
// back to a hosted model for anything else.
type AssistantService struct {
	Model   LanguageModel
	Timeout time.Duration
}

func NewAssistantService(model LanguageModel, timeout time.Duration) *AssistantService {
	return &AssistantService{Model: model, Timeout: timeout}
}

func matchRule(message string) (string, bool) {
	for _, r := range assistantRules {
		for _, k := range r.keywords {
			if strings.Contains(message, k) {
				return r.reply, true
			}
		}
	}
	return "", false
}

// Reply never fails; model errors turn into a fixed apology.
func (s *AssistantService) Reply(ctx context.Context, message string) string {
	message = strings.ToLower(strings.TrimSpace(message))
	if reply, ok := matchRule(message); ok {
		return reply
	}
	if s.Model == nil {
		return AssistantFallbackReply
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	reply, err := s.Model.Generate(ctx, fmt.Sprintf(assistantPrompt, message))
	if err != nil {
		log.Printf("[assistant] model call failed: %v", err)
		return AssistantFallbackReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return AssistantFallbackReply
	}
	return reply
}

// GeminiClient calls the Generative Language REST API.
type GeminiClient struct {
	APIKey   string
	Model    string
	Endpoint string
	HTTP     *http.Client
}

func NewGeminiClient(apiKey, model, endpoint string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		APIKey:   apiKey,
		Model:    model,
		Endpoint: strings.TrimRight(endpoint, "/"),
		HTTP:     &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	b, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.Endpoint, g.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("JSON parse error: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no candidates returned")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
