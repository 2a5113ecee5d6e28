package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ssathosi/catatanqu/internal/models"
	"github.com/Ssathosi/catatanqu/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// ParsedTransaction is the best-effort interpretation of a free-text
// expense report. Amounts are minor currency units.
type ParsedTransaction struct {
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
}

// ParserService turns free text into a structured transaction intent. The
// primary path is the GigaChat model; a rule-based parser covers outages
// and low-confidence answers so the assistant keeps working offline.
type ParserService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

const parserSystemInstruction = `You are a personal-finance assistant that parses free-text expense reports.
Given one user message, respond with ONLY a JSON object, no markdown, no commentary:
{
  "amount": number (expense amount in minor currency units, positive integer),
  "description": string (short description of what was bought),
  "category": one of "Food" | "Transport" | "Shopping" | "Entertainment" | "Bills" | "Health" | "Education" | "Other",
  "confidence": number between 0 and 1
}
If no amount can be found, use 0 for amount and a low confidence.`

func NewParserService(cfg *config.GigaChatConfig, logger *zap.Logger) (*ParserService, error) {
	// No API key configured: run in rule-based mode only.
	if cfg.APIKey == "" {
		logger.Warn("GigaChat API key not configured, text parsing falls back to rules")
		return &ParserService{logger: logger}, nil
	}

	ctx := context.Background()
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = parserSystemInstruction
	model.Temperature = 0.1

	return &ParserService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *ParserService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// ParseText interprets one free-text expense message.
func (s *ParserService) ParseText(ctx context.Context, text string) (*ParsedTransaction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty input")
	}

	if s.model != nil {
		parsed, err := s.parseWithModel(ctx, text)
		if err == nil && parsed.Amount > 0 {
			return parsed, nil
		}
		if err != nil {
			s.logger.Warn("LLM parse failed, using rule-based fallback", zap.Error(err))
		}
	}

	return parseWithRules(text), nil
}

func (s *ParserService) parseWithModel(ctx context.Context, text string) (*ParsedTransaction, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: text},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from LLM")
	}

	parsed, err := parseTransactionJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	parsed.Category = string(models.NormalizeCategory(parsed.Category))
	return parsed, nil
}

// GenerateInsight asks the model for short spending advice based on an
// already-computed numeric summary.
func (s *ParserService) GenerateInsight(ctx context.Context, summary string) (string, error) {
	if s.model == nil {
		return "", fmt.Errorf("llm unavailable")
	}

	prompt := fmt.Sprintf(`Here is a user's spending summary:

%s

Give 2-3 short, concrete, friendly tips to improve their spending next period. Plain text, no markdown.`, summary)

	resp, err := s.model.Generate(ctx, []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate insight: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// parseTransactionJSON extracts the JSON object from a model answer that
// may be wrapped in markdown fences or surrounding prose.
func parseTransactionJSON(content string) (*ParsedTransaction, error) {
	content = strings.TrimSpace(content)

	jsonStart := strings.Index(content, "{")
	jsonEnd := strings.LastIndex(content, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd < jsonStart {
		return nil, fmt.Errorf("invalid response format: %s", content)
	}
	jsonStr := content[jsonStart : jsonEnd+1]

	var parsed ParsedTransaction
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		jsonStr = strings.TrimSpace(jsonStr)
		jsonStr = strings.TrimPrefix(jsonStr, "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		jsonStr = strings.TrimSuffix(jsonStr, "```")
		jsonStr = strings.TrimSpace(jsonStr)
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, content)
		}
	}
	return &parsed, nil
}

var (
	amountMillionRe  = regexp.MustCompile(`([\d.]+)\s*(juta|jt|m)\b`)
	amountThousandRe = regexp.MustCompile(`([\d.]+)\s*(ribu|rb|k)\b`)
	amountPlainRe    = regexp.MustCompile(`[\d.]+`)
)

// parseWithRules is the offline path: extract an amount with common
// shorthand suffixes and categorize by keywords.
func parseWithRules(text string) *ParsedTransaction {
	lower := strings.ToLower(text)
	amount := parseAmount(lower)

	category := categorizeByKeywords(lower)
	confidence := 0.4
	if category == models.CategoryOther {
		confidence = 0.2
	}

	return &ParsedTransaction{
		Amount:      amount,
		Description: strings.TrimSpace(text),
		Category:    string(category),
		Confidence:  confidence,
	}
}

// parseAmount understands "15000", "15.000", "15k", "15rb" and "1.5jt".
func parseAmount(text string) int64 {
	text = strings.ReplaceAll(text, ",", ".")

	if m := amountMillionRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return int64(v * 1_000_000)
		}
	}
	if m := amountThousandRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return int64(v * 1_000)
		}
	}
	if m := amountPlainRe.FindString(text); m != "" {
		// A trailing 3-digit group after a dot is a thousands separator.
		if strings.Contains(m, ".") {
			parts := strings.Split(m, ".")
			if len(parts[len(parts)-1]) == 3 {
				m = strings.ReplaceAll(m, ".", "")
			}
		}
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return int64(v)
		}
	}
	return 0
}

var categoryKeywords = map[models.Category][]string{
	models.CategoryFood: {
		"lunch", "dinner", "breakfast", "coffee", "snack", "restaurant",
		"cafe", "food", "drink", "grocery", "groceries", "pizza", "burger",
	},
	models.CategoryTransport: {
		"taxi", "bus", "train", "mrt", "fuel", "gas", "parking", "toll",
		"grab", "uber", "gojek", "flight", "ride",
	},
	models.CategoryShopping: {
		"mall", "shopping", "shop", "clothes", "shoes", "bag", "gadget",
		"amazon", "tokopedia", "shopee", "store",
	},
	models.CategoryEntertainment: {
		"netflix", "spotify", "youtube", "game", "cinema", "movie",
		"concert", "karaoke", "vacation", "holiday",
	},
	models.CategoryBills: {
		"electricity", "water", "wifi", "internet", "phone", "rent",
		"insurance", "tax", "subscription", "installment", "bill",
	},
	models.CategoryHealth: {
		"pharmacy", "doctor", "hospital", "clinic", "vitamin", "gym",
		"fitness", "medicine", "medical", "health",
	},
	models.CategoryEducation: {
		"book", "course", "tuition", "school", "university", "udemy",
		"coursera", "training", "seminar", "workshop",
	},
}

func categorizeByKeywords(text string) models.Category {
	for _, category := range models.Categories() {
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(text, kw) {
				return category
			}
		}
	}
	return models.CategoryOther
}
