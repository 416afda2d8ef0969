package validation

import (
	"net/url"
	"strings"

	"github.com/mohammad-safakhou/learnmap/models"
)

var gardeningBank = []models.Resource{
	{Type: models.ResourceArticle, Title: "RHS - Beginner's Guide to Gardening", URL: "https://www.rhs.org.uk/advice/beginners-guide/gardening"},
	{Type: models.ResourceArticle, Title: "University of Minnesota Extension - Gardening Basics", URL: "https://extension.umn.edu/yard-and-garden/gardening-basics"},
	{Type: models.ResourceArticle, Title: "Old Farmer's Almanac - Vegetable Gardening for Beginners", URL: "https://www.almanac.com/vegetable-gardening-for-beginners"},
	{Type: models.ResourceArticle, Title: "Gardeners' World - How to Start Gardening", URL: "https://www.gardenersworld.com/how-to/grow-plants/how-to-start-gardening/"},
}

var techBank = []models.Resource{
	{Type: models.ResourceArticle, Title: "MDN Web Docs - Learn Web Development", URL: "https://developer.mozilla.org/en-US/docs/Learn"},
	{Type: models.ResourceArticle, Title: "JavaScript.info - The Modern JavaScript Tutorial", URL: "https://javascript.info/"},
	{Type: models.ResourceArticle, Title: "React.dev - Quick Start", URL: "https://react.dev/learn"},
	{Type: models.ResourceArticle, Title: "Node.js - Getting Started", URL: "https://nodejs.org/en/learn"},
	{Type: models.ResourceArticle, Title: "Express - Official Guide", URL: "https://expressjs.com/en/guide/routing.html"},
	{Type: models.ResourceCourse, Title: "freeCodeCamp - Responsive Web Design", URL: "https://www.freecodecamp.org/learn/2022/responsive-web-design/"},
}

// selectFallback picks curated resources for topicText: the gardening
// bank, else the technical bank, else a Wikipedia article for the topic.
// The result is URL-unique, never empty and holds at most limit entries.
func selectFallback(c Classifier, topicText string, limit int) []models.Resource {
	if limit <= 0 {
		limit = DefaultMaxResources
	}
	var bank []models.Resource
	switch Classify(c, topicText) {
	case CategoryGardening:
		bank = gardeningBank
	case CategoryTechnical:
		bank = techBank
	default:
		bank = []models.Resource{WikipediaResource(topicText)}
	}

	picks := make([]models.Resource, 0, limit)
	seen := make(map[string]struct{}, len(bank))
	for _, res := range bank {
		if len(picks) == limit {
			break
		}
		if _, dup := seen[res.URL]; dup {
			continue
		}
		seen[res.URL] = struct{}{}
		picks = append(picks, res)
	}
	if len(picks) == 0 {
		picks = append(picks, WikipediaResource(topicText))
	}
	return picks
}

// WikipediaResource builds an English Wikipedia article link for topicText.
func WikipediaResource(topicText string) models.Resource {
	topic := strings.TrimSpace(topicText)
	if topic == "" {
		topic = "Topic"
	}
	slug := encodeURIComponent(strings.Join(strings.Fields(topic), "_"))
	return models.Resource{
		Type:  models.ResourceArticle,
		Title: "Wikipedia - " + topic,
		URL:   "https://en.wikipedia.org/wiki/" + slug,
	}
}

var uriComponentUnescape = strings.NewReplacer("%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// encodeURIComponent escapes s like the browser function of the same name,
// which leaves !'()* unescaped where QueryEscape does not.
func encodeURIComponent(s string) string {
	return uriComponentUnescape.Replace(url.QueryEscape(s))
}
