package vision

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultModel is the vision-capable model used when none is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

const defaultMaxTokens = 1024

const systemPrompt = `You are a numismatics expert. You identify coins from photographs of their front and back faces and estimate their collector value in USD.`

const identifyPrompt = `These two images show the front and back of the same physical coin.

Identify the coin and return a valid JSON object with exactly these keys:
{"name": "<common name of the coin>", "year": <mint year as integer, or null if not readable>, "country": "<country of origin>", "denomination": "<face value and unit>", "estimatedValue": <estimated collector value in USD as a number>, "composition": "<metal composition>", "description": "<one or two sentence description>", "condition": "<estimated grade/condition>", "isRare": <true or false>, "rarityDetails": "<why the coin is rare, or empty string>", "sources": ["<reference URL>", ...]}

Return only the JSON object.`

// modelPricing holds per-million-token pricing for known models.
var modelPricing = map[string][2]float64{
	// model → {input $/MTok, output $/MTok}
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"claude-opus-4-6":            {15.00, 75.00},
}

// TokenUsage tracks token consumption of an identification call.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// EstimateCost computes an estimated cost in USD from a TokenUsage and model
// ID. Returns 0 for unknown models.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	inCost := (float64(u.InputTokens) / 1e6) * pricing[0]
	outCost := (float64(u.OutputTokens) / 1e6) * pricing[1]
	return inCost + outCost
}

// LogCost logs token usage and estimated cost with structured zap fields.
func (u TokenUsage) LogCost(model string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("phase", "identify"),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

// sdkClient implements Identifier using the official anthropic-sdk-go.
type sdkClient struct {
	client    sdk.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// Option configures the SDK-backed identifier.
type Option func(*sdkClient)

// WithModel overrides the default model ID.
func WithModel(model string) Option {
	return func(c *sdkClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens overrides the reply token budget.
func WithMaxTokens(n int64) Option {
	return func(c *sdkClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithLimiter replaces the default client-side rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *sdkClient) {
		if l != nil {
			c.limiter = l
		}
	}
}

// NewClient creates an Identifier backed by the Anthropic SDK. The default
// limiter allows one identification every two seconds.
func NewClient(apiKey string, opts ...Option) Identifier {
	c := &sdkClient{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *sdkClient) Identify(ctx context.Context, front, back Image) (*Identification, error) {
	if len(front.Data) == 0 {
		return nil, eris.New("vision: front image is empty")
	}
	// A single-face capture reuses the front image for the back.
	if len(back.Data) == 0 {
		back = front
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "vision: rate limit wait")
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(
				sdk.NewImageBlockBase64(mediaType(front), base64.StdEncoding.EncodeToString(front.Data)),
				sdk.NewImageBlockBase64(mediaType(back), base64.StdEncoding.EncodeToString(back.Data)),
				sdk.NewTextBlock(identifyPrompt),
			),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "vision: create message")
	}

	usage := TokenUsage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	usage.LogCost(string(msg.Model))

	var reply strings.Builder
	for _, block := range msg.Content {
		reply.WriteString(block.Text)
	}

	ident, err := parseIdentification(reply.String())
	if err != nil {
		return nil, err
	}

	zap.L().Info("coin identified",
		zap.String("name", ident.Name),
		zap.String("country", ident.Country),
		zap.Float64("estimated_value", ident.EstimatedValue),
		zap.Bool("is_rare", ident.IsRare),
	)
	return ident, nil
}

func mediaType(img Image) string {
	if img.MediaType != "" {
		return img.MediaType
	}
	return "image/jpeg"
}
