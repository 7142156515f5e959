package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"restoledger/backend/internal/domain"
)

const defaultGeminiModel = "gemini-2.0-flash-001"

var ErrEmptyResponse = errors.New("gemini returned no text")

type Gemini struct {
	apiKey  string
	model   string
	timeout time.Duration
}

func NewGemini(apiKey string, model string) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{apiKey: apiKey, model: model, timeout: 20 * time.Second}
}

func (g *Gemini) Suggest(ctx context.Context, in Input) (domain.CampaignSuggestion, error) {
	if len(in.Rankings) == 0 {
		return domain.CampaignSuggestion{}, ErrNoCandidates
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return domain.CampaignSuggestion{}, err
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"

	prompt, err := buildPrompt(in)
	if err != nil {
		return domain.CampaignSuggestion{}, err
	}

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return domain.CampaignSuggestion{}, err
	}

	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if chunk, ok := part.(genai.Text); ok {
				text.WriteString(string(chunk))
			}
		}
		break
	}
	if text.Len() == 0 {
		return domain.CampaignSuggestion{}, ErrEmptyResponse
	}
	return parseSuggestion(text.String(), in)
}

type promptItem struct {
	Name         string `json:"name"`
	UnitsSold    int    `json:"units_sold"`
	Revenue      string `json:"revenue"`
	MarginStatus string `json:"margin_status"`
}

func buildPrompt(in Input) (string, error) {
	items := make([]promptItem, 0, len(in.Rankings))
	for _, rank := range in.Rankings {
		items = append(items, promptItem{
			Name:         rank.Name,
			UnitsSold:    rank.UnitsSold,
			Revenue:      rank.Revenue.StringFixed(0),
			MarginStatus: string(rank.MarginStatus),
		})
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are a marketing assistant for the restaurant outlet %q.
Sales for the current window, best seller first:
%s

Suggest ONE bundle promotion pairing two dishes from that list. Prefer discounting
a dish whose margin_status is "safe". Reply with JSON only:
{"title": string, "description": string, "primary_item_name": string,
 "secondary_item_name": string, "discount_percent": number}
Item names must match the list exactly.`, in.OutletName, payload), nil
}

// parseSuggestion accepts the model's JSON, with or without a markdown fence,
// and rejects item names that are not on the menu.
func parseSuggestion(raw string, in Input) (domain.CampaignSuggestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var suggestion domain.CampaignSuggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &suggestion); err != nil {
		return domain.CampaignSuggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}

	known := make(map[string]struct{}, len(in.Rankings))
	for _, rank := range in.Rankings {
		known[rank.Name] = struct{}{}
	}
	if _, ok := known[suggestion.PrimaryItemName]; !ok {
		return domain.CampaignSuggestion{}, fmt.Errorf("unknown primary item %q", suggestion.PrimaryItemName)
	}
	if suggestion.SecondaryItemName != "" {
		if _, ok := known[suggestion.SecondaryItemName]; !ok {
			return domain.CampaignSuggestion{}, fmt.Errorf("unknown secondary item %q", suggestion.SecondaryItemName)
		}
	}
	if strings.TrimSpace(suggestion.Title) == "" || suggestion.DiscountPercent.IsNegative() {
		return domain.CampaignSuggestion{}, fmt.Errorf("incomplete suggestion")
	}
	return suggestion, nil
}
