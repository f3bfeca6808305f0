package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"dkcal-backend/pkg/errors"
)

// Estimate is a model-produced nutrition estimate for a described or
// photographed food.
type Estimate struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
	Summary string  `json:"summary,omitempty"`
	Details string  `json:"details,omitempty"`
}

// EstimatorConfig configures the external estimation backend.
type EstimatorConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
	MaxTokens  int
}

// EstimatorService asks an OpenAI-compatible chat completions API to
// estimate macros from a text description or an image. It is optional: with
// no API key configured every call fails with a service-unavailable error.
type EstimatorService struct {
	client     *openai.Client
	model      string
	imageModel string
	maxTokens  int
	logger     *zap.Logger
}

// NewEstimatorService creates a new estimator service. A nil client (no API
// key) produces a service that rejects every request.
func NewEstimatorService(cfg EstimatorConfig, logger *zap.Logger) *EstimatorService {
	s := &EstimatorService{
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		maxTokens:  cfg.MaxTokens,
		logger:     logger,
	}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		s.client = openai.NewClientWithConfig(clientCfg)
	}
	return s
}

const estimatorSystemPrompt = `You are a careful nutrition assistant.

Strict rules:
- If a food is described as cooked, use values AFTER cooking (cooked pasta ~130 kcal/100g, not 350).
- For branded products, use the manufacturer's published values or a nutrition database such as OpenFoodFacts.
- Sum the values of each ingredient separately.
- Check coherence: kcal must roughly equal protein*4 + fat*9 + carbs*4.

MANDATORY response format (JSON only, nothing else):
{
  "kcal": number,
  "protein": number,
  "fat": number,
  "carbs": number,
  "summary": "1-2 sentences: where these numbers come from and how confident you are.",
  "details": "80-150 words MAX. Straight to the point: which source, which calculation if you adapted a weight or quantity. No dietary advice."
}`

const estimatorImageSystemPrompt = `You are a nutrition assistant expert at reading nutrition labels and estimating dishes visually.

Strict rules:
- If the image shows a nutrition label, read the exact values.
- If the image shows a dish or food, estimate the values.
- Check coherence: kcal must roughly equal protein*4 + fat*9 + carbs*4.

MANDATORY response format (JSON only, nothing else):
{
  "kcal": number,
  "protein": number,
  "fat": number,
  "carbs": number,
  "summary": "1-2 sentences: what you see and where these numbers come from.",
  "details": "80-150 words MAX: what you read or saw on the image, which source. No dietary advice."
}`

var unitPhrases = map[string]string{
	"100g":    "per 100g of",
	"100ml":   "per 100ml of",
	"portion": "for one portion of",
}

func unitPhrase(unit string) string {
	if p, ok := unitPhrases[unit]; ok {
		return p
	}
	return unitPhrases["100g"]
}

func notConfiguredError() *errors.AppError {
	return &errors.AppError{
		Type:       errors.ErrorTypeExternal,
		Message:    "estimator API key not configured",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// EstimateText estimates macros for a text description, expressed per the
// given reference unit (100g, 100ml or portion).
func (s *EstimatorService) EstimateText(ctx context.Context, description, unit, name string) (Estimate, error) {
	if s.client == nil {
		return Estimate{}, notConfiguredError()
	}

	nameCtx := ""
	if name != "" {
		nameCtx = fmt.Sprintf(" (product: %q)", name)
	}
	prompt := fmt.Sprintf(
		`%s %q%s. All values must be coherent (kcal ≈ protein*4 + fat*9 + carbs*4). Answer ONLY in JSON: {"kcal":number,"protein":number,"fat":number,"carbs":number,"summary":"short summary","details":"detailed explanation"}`,
		unitPhrase(unit), description, nameCtx,
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.1,
		MaxTokens:   s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: estimatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return Estimate{}, errors.NewExternalError("estimator", err)
	}
	return s.parseResponse(resp)
}

// EstimateImage estimates macros from a base64-encoded JPEG, either a
// nutrition label or a photographed dish.
func (s *EstimatorService) EstimateImage(ctx context.Context, imageBase64, unit, name string) (Estimate, error) {
	if s.client == nil {
		return Estimate{}, notConfiguredError()
	}

	nameCtx := ""
	if name != "" {
		nameCtx = fmt.Sprintf(" (product: %q)", name)
	}
	prompt := fmt.Sprintf(
		`Analyze this image%s. If it is a nutrition label, read the values %s the product. If it is a dish or a visible product, estimate the values %s what you see. All values must be coherent (kcal ≈ protein*4 + fat*9 + carbs*4). Answer ONLY in JSON: {"kcal":number,"protein":number,"fat":number,"carbs":number,"summary":"short summary","details":"detailed explanation"}`,
		nameCtx, unitPhrase(unit), unitPhrase(unit),
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.imageModel,
		Temperature: 0.1,
		MaxTokens:   s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: estimatorImageSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + imageBase64,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return Estimate{}, errors.NewExternalError("estimator", err)
	}
	return s.parseResponse(resp)
}

func (s *EstimatorService) parseResponse(resp openai.ChatCompletionResponse) (Estimate, error) {
	if len(resp.Choices) == 0 {
		return Estimate{}, errors.NewExternalError("estimator", fmt.Errorf("empty response"))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return Estimate{}, errors.NewExternalError("estimator", fmt.Errorf("empty response"))
	}
	est, err := parseEstimate(content)
	if err != nil {
		s.logger.Warn("unparseable estimator response", zap.String("content", content))
		return Estimate{}, err
	}
	return est, nil
}

var (
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	kcalRe       = regexp.MustCompile(`"kcal"\s*:\s*([\d.]+)`)
	proteinRe    = regexp.MustCompile(`"protein"\s*:\s*([\d.]+)`)
	fatRe        = regexp.MustCompile(`"fat"\s*:\s*([\d.]+)`)
	carbsRe      = regexp.MustCompile(`"carbs"\s*:\s*([\d.]+)`)
	summaryRe    = regexp.MustCompile(`"summary"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	detailsRe    = regexp.MustCompile(`"details"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// parseEstimate extracts an estimate from the model's reply. Clean JSON is
// preferred; a field-by-field regex scan covers replies where the model
// wrapped or mangled the object. Kcal rounds to a whole number, the other
// macros to one decimal.
func parseEstimate(content string) (Estimate, error) {
	type rawEstimate struct {
		Kcal    *float64 `json:"kcal"`
		Protein *float64 `json:"protein"`
		Fat     *float64 `json:"fat"`
		Carbs   *float64 `json:"carbs"`
		Summary string   `json:"summary"`
		Details string   `json:"details"`
	}

	if match := jsonObjectRe.FindString(content); match != "" {
		var raw rawEstimate
		if err := json.Unmarshal([]byte(match), &raw); err == nil && raw.Kcal != nil {
			return Estimate{
				Kcal:    round0(*raw.Kcal),
				Protein: round1(deref(raw.Protein)),
				Fat:     round1(deref(raw.Fat)),
				Carbs:   round1(deref(raw.Carbs)),
				Summary: raw.Summary,
				Details: raw.Details,
			}, nil
		}
	}

	kcalMatch := kcalRe.FindStringSubmatch(content)
	if kcalMatch == nil {
		return Estimate{}, errors.NewExternalError("estimator", fmt.Errorf("reply carries no nutrition values"))
	}
	return Estimate{
		Kcal:    round0(parseNum(kcalMatch[1])),
		Protein: round1(regexNum(proteinRe, content)),
		Fat:     round1(regexNum(fatRe, content)),
		Carbs:   round1(regexNum(carbsRe, content)),
		Summary: regexText(summaryRe, content),
		Details: regexText(detailsRe, content),
	}, nil
}

func regexNum(re *regexp.Regexp, content string) float64 {
	if m := re.FindStringSubmatch(content); m != nil {
		return parseNum(m[1])
	}
	return 0
}

func regexText(re *regexp.Regexp, content string) string {
	if m := re.FindStringSubmatch(content); m != nil {
		return strings.ReplaceAll(strings.ReplaceAll(m[1], `\n`, "\n"), `\"`, `"`)
	}
	return ""
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func round0(v float64) float64 {
	return math.Round(v)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
