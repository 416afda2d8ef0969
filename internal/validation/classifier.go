package validation

import (
	"strings"

	"github.com/mohammad-safakhou/learnmap/models"
)

// Category is the coarse topical class of a piece of text.
type Category string

const (
	CategoryTechnical     Category = "technical"
	CategoryGardening     Category = "gardening"
	CategoryUncategorized Category = "uncategorized"
)

// TechKeywords flag programming and web development content. Matching is by
// substring, so short entries such as "ai" or "js" also hit longer words.
var TechKeywords = []string{
	"javascript", "js", "typescript", "react", "angular", "vue", "svelte",
	"web", "frontend", "backend", "css", "html", "node", "express",
	"python", "java", "c#", "c++", "dotnet", "docker", "kubernetes",
	"sql", "database", "api", "programming", "software", "developer",
	"mozilla", "mdn", "freecodecamp", "cloud", "aws", "azure", "gcp",
	"ml", "ai", "data", "pandas", "numpy",
}

// GardeningKeywords flag horticulture content.
var GardeningKeywords = []string{
	"garden", "gardening", "horticulture", "botany", "soil", "plant", "plants",
	"flowers", "vegetable", "vegetables", "herb", "herbs", "compost",
	"landscape", "yard", "lawn",
}

// Classifier decides category membership for free text. Implementations
// must be safe for concurrent use.
type Classifier interface {
	IsTechTopic(text string) bool
	IsGardeningTopic(text string) bool
}

// KeywordClassifier matches lower-cased keywords as substrings.
type KeywordClassifier struct {
	tech      []string
	gardening []string
}

// NewKeywordClassifier builds a classifier from keyword lists. Keywords are
// lower-cased; empty entries are ignored.
func NewKeywordClassifier(tech, gardening []string) KeywordClassifier {
	return KeywordClassifier{tech: lowerAll(tech), gardening: lowerAll(gardening)}
}

// DefaultClassifier uses TechKeywords and GardeningKeywords.
func DefaultClassifier() KeywordClassifier {
	return NewKeywordClassifier(TechKeywords, GardeningKeywords)
}

func (c KeywordClassifier) IsTechTopic(text string) bool {
	return containsAny(strings.ToLower(text), c.tech)
}

func (c KeywordClassifier) IsGardeningTopic(text string) bool {
	return containsAny(strings.ToLower(text), c.gardening)
}

// Classify returns the first matching category, gardening before technical.
func Classify(c Classifier, text string) Category {
	switch {
	case c.IsGardeningTopic(text):
		return CategoryGardening
	case c.IsTechTopic(text):
		return CategoryTechnical
	default:
		return CategoryUncategorized
	}
}

// IsOffTopicResource reports whether res should be dropped for topicText.
// A technical-looking resource is off-topic for any non-technical topic, and
// also for gardening topics even when they mention technical words.
func IsOffTopicResource(c Classifier, res models.Resource, topicText string) bool {
	if !c.IsTechTopic(res.Title + " " + res.URL) {
		return false
	}
	return !c.IsTechTopic(topicText) || c.IsGardeningTopic(topicText)
}

var defaultClassifier = DefaultClassifier()

// IsTechTopic reports whether text contains any technical keyword.
func IsTechTopic(text string) bool { return defaultClassifier.IsTechTopic(text) }

// IsGardeningTopic reports whether text contains any gardening keyword.
func IsGardeningTopic(text string) bool { return defaultClassifier.IsGardeningTopic(text) }

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
