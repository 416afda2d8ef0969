package learnmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/learnmap/internal/platform/logger"
	"github.com/mohammad-safakhou/learnmap/internal/schema"
	"github.com/mohammad-safakhou/learnmap/internal/validation"
	"github.com/mohammad-safakhou/learnmap/models"
	"github.com/mohammad-safakhou/learnmap/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrMissingTopic is returned for requests without a topic.
	ErrMissingTopic = errors.New("missing topic")
	// ErrInvalidJSON means the model output did not parse as JSON.
	ErrInvalidJSON = errors.New("model returned invalid JSON")
	// ErrMissingNodes means the model output has no nodes array.
	ErrMissingNodes = errors.New("model output is missing nodes array")
)

// UpstreamError wraps a failed model call.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// maxLoggedOutput bounds how much raw model text lands in the logs.
const maxLoggedOutput = 2000

// Request is a learning map generation request.
type Request struct {
	Topic string
	Level string
}

// Generator produces validated learning maps from a model provider.
type Generator struct {
	provider    provider.Provider
	validator   *validation.Validator
	log         *logger.Logger
	tracer      trace.Tracer
	temperature float64
	maxTokens   int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

func WithTemperature(t float64) GeneratorOption {
	return func(g *Generator) {
		if t > 0 {
			g.temperature = t
		}
	}
}

func WithMaxTokens(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

func WithLogger(l *logger.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGenerator wires a provider and a validator.
func NewGenerator(p provider.Provider, v *validation.Validator, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:    p,
		validator:   v,
		log:         logger.NewNop(),
		tracer:      otel.Tracer("learnmap/generator"),
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for a map once and repairs the result.
func (g *Generator) Generate(ctx context.Context, req Request) (*models.LearningMap, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrMissingTopic
	}
	level := models.ParseTargetLevel(req.Level)

	ctx, span := g.tracer.Start(ctx, "learnmap.generate", trace.WithAttributes(
		attribute.String("learnmap.topic", topic),
		attribute.String("learnmap.level", string(level)),
		attribute.String("llm.provider", g.provider.Name()),
	))
	defer span.End()

	start := time.Now()
	text, err := g.provider.Generate(ctx, provider.Request{
		System:      SystemPrompt,
		User:        UserPrompt(topic, level),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		JSON:        true,
	})
	if err != nil {
		recordModelCall(ctx, g.provider.Name(), outcomeUpstreamError, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "model call failed")
		g.log.Error("model call failed", "provider", g.provider.Name(), "topic", topic, "error", err)
		return nil, &UpstreamError{Provider: g.provider.Name(), Err: err}
	}

	m, err := g.Sanitize(ctx, []byte(text), topic, level)
	if err != nil {
		outcome := outcomeInvalidJSON
		if errors.Is(err, ErrMissingNodes) {
			outcome = outcomeMissingNodes
		}
		recordModelCall(ctx, g.provider.Name(), outcome, time.Since(start))
		span.SetStatus(codes.Error, outcome)
		g.log.Error("model returned unusable output", "provider", g.provider.Name(), "topic", topic, "error", err, "output", truncate(text, maxLoggedOutput))
		return nil, err
	}
	recordModelCall(ctx, g.provider.Name(), outcomeOK, time.Since(start))
	span.SetAttributes(attribute.Int("learnmap.nodes", len(m.Nodes)))
	return m, nil
}

// Sanitize turns raw model output into a LearningMap for topic. It is the
// post-model half of Generate and is usable on stored responses.
func (g *Generator) Sanitize(ctx context.Context, raw []byte, topic string, level models.Level) (*models.LearningMap, error) {
	if strings.TrimSpace(string(raw)) == "" {
		raw = []byte("{}")
	}
	if err := schema.ValidateLearningMap(raw); err != nil {
		if errors.Is(err, schema.ErrShape) {
			return nil, fmt.Errorf("%w (%v)", ErrMissingNodes, err)
		}
		return nil, fmt.Errorf("%w (%v)", ErrInvalidJSON, err)
	}
	var parsed models.LearningMap
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrInvalidJSON, err)
	}

	out := &models.LearningMap{
		Topic:       parsed.Topic,
		TargetLevel: models.Level(strings.TrimSpace(string(parsed.TargetLevel))),
		Overview:    parsed.Overview,
		Nodes:       g.validator.SanitizeNodes(ctx, parsed.Nodes, topic),
	}
	if out.Topic == "" {
		out.Topic = topic
	}
	if out.TargetLevel == "" {
		out.TargetLevel = level
	}
	if out.Overview == "" {
		out.Overview = DefaultOverview(topic, level)
	}
	if out.Nodes == nil {
		out.Nodes = []models.LearningNode{}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
