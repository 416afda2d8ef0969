package validation

import (
	"context"
	"strings"

	"github.com/mohammad-safakhou/learnmap/internal/helpers"
	"github.com/mohammad-safakhou/learnmap/internal/platform/logger"
	"github.com/mohammad-safakhou/learnmap/internal/policy"
	"github.com/mohammad-safakhou/learnmap/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxResources caps the resources kept per node.
const DefaultMaxResources = 3

// DomainFilter rejects hosts that must never be linked.
type DomainFilter interface {
	IsBlockedDomain(hostname string) bool
}

// Validator repairs model-generated learning map content. It holds no
// per-request state and is safe for concurrent use.
type Validator struct {
	classifier   Classifier
	domains      DomainFilter
	checker      Checker
	maxResources int
	log          *logger.Logger
	tracer       trace.Tracer
}

// Option configures a Validator.
type Option func(*Validator)

func WithClassifier(c Classifier) Option {
	return func(v *Validator) {
		if c != nil {
			v.classifier = c
		}
	}
}

func WithDomainFilter(f DomainFilter) Option {
	return func(v *Validator) {
		if f != nil {
			v.domains = f
		}
	}
}

func WithMaxResources(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxResources = n
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

// New builds a Validator around checker. A nil checker probes over HTTP.
func New(checker Checker, opts ...Option) *Validator {
	if checker == nil {
		checker = NewHTTPChecker()
	}
	v := &Validator{
		classifier:   DefaultClassifier(),
		domains:      policy.DefaultDomainPolicy(),
		checker:      checker,
		maxResources: DefaultMaxResources,
		log:          logger.NewNop(),
		tracer:       otel.Tracer("learnmap/validation"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NormalizeResource returns the cleaned resource and true when raw is an
// acceptable link for topicText. Checks run cheapest first; the network
// probe happens only for otherwise valid links.
func (v *Validator) NormalizeResource(ctx context.Context, raw models.Resource, topicText string) (models.Resource, bool) {
	res, reason := v.normalize(ctx, raw, topicText)
	recordVerdict(ctx, reason)
	if reason != reasonAccepted {
		v.log.Debug("resource rejected", "reason", reason, "url", raw.URL, "title", raw.Title)
		return models.Resource{}, false
	}
	return res, true
}

func (v *Validator) normalize(ctx context.Context, raw models.Resource, topicText string) (models.Resource, string) {
	if raw.URL == "" || raw.Title == "" {
		return models.Resource{}, reasonMissingFields
	}
	if IsOffTopicResource(v.classifier, raw, topicText) {
		return models.Resource{}, reasonOffTopic
	}
	u, err := helpers.ParseAbsoluteURL(raw.URL)
	if err != nil {
		return models.Resource{}, reasonInvalidURL
	}
	if !helpers.IsWebScheme(u.Scheme) {
		return models.Resource{}, reasonUnsupportedScheme
	}
	if v.domains.IsBlockedDomain(u.Hostname()) {
		return models.Resource{}, reasonBlockedDomain
	}
	canonical := u.String()
	if !v.checker.IsReachable(ctx, canonical) {
		return models.Resource{}, reasonUnreachable
	}
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return models.Resource{}, reasonEmptyTitle
	}
	return models.Resource{
		Type:  models.NormalizeResourceType(raw.Type),
		Title: title,
		URL:   canonical,
	}, reasonAccepted
}

// ValidateResources normalises raw in order until the cap is reached; later
// entries are never probed. When nothing survives, curated fallbacks for
// topicText are used instead. The result is URL-unique ignoring case.
func (v *Validator) ValidateResources(ctx context.Context, raw []models.Resource, topicText string) []models.Resource {
	accepted := make([]models.Resource, 0, v.maxResources)
	for _, candidate := range raw {
		if len(accepted) >= v.maxResources {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if res, ok := v.NormalizeResource(ctx, candidate, topicText); ok {
			accepted = append(accepted, res)
		}
	}
	if len(accepted) == 0 {
		recordFallback(ctx, Classify(v.classifier, topicText))
		accepted = v.FallbackResources(topicText)
	}
	return dedupeByURL(accepted, v.maxResources)
}

// FallbackResources returns curated resources for topicText.
func (v *Validator) FallbackResources(topicText string) []models.Resource {
	return selectFallback(v.classifier, topicText, v.maxResources)
}

// SanitizeNodes validates every node's resources depth-first. Each node's
// resources are judged against topicText plus the node title; children are
// judged against topicText alone. Nodes are never dropped or reordered.
func (v *Validator) SanitizeNodes(ctx context.Context, nodes []models.LearningNode, topicText string) []models.LearningNode {
	ctx, span := v.tracer.Start(ctx, "validation.sanitize_nodes", trace.WithAttributes(attribute.Int("nodes", len(nodes))))
	defer span.End()
	return v.sanitizeNodes(ctx, nodes, topicText)
}

func (v *Validator) sanitizeNodes(ctx context.Context, nodes []models.LearningNode, topicText string) []models.LearningNode {
	out := make([]models.LearningNode, 0, len(nodes))
	for _, node := range nodes {
		nodeContext := topicText + " " + node.Title
		clean := node
		clean.Resources = v.ValidateResources(ctx, node.Resources, nodeContext)
		clean.Children = v.sanitizeNodes(ctx, node.Children, topicText)
		out = append(out, clean)
	}
	return out
}

func dedupeByURL(list []models.Resource, limit int) []models.Resource {
	seen := make(map[string]struct{}, len(list))
	out := make([]models.Resource, 0, len(list))
	for _, res := range list {
		if res.URL == "" {
			continue
		}
		key := strings.ToLower(res.URL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, res)
		if len(out) == limit {
			break
		}
	}
	return out
}
