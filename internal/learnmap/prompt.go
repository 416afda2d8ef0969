package learnmap

import (
	"fmt"

	"github.com/mohammad-safakhou/learnmap/models"
)

// SystemPrompt describes the LearningMap document and the curation rules
// every generated map must follow.
const SystemPrompt = `You are an expert learning designer and curriculum strategist.
You design structured learning maps for any topic, for a given difficulty level.

You MUST return ONLY valid JSON that matches this TypeScript type:

type LearningResource = {
  type: "article" | "video" | "book" | "course" | "other";
  title: string;
  url: string;
};

type LearningNode = {
  id: string;
  title: string;
  level: "beginner" | "intermediate" | "advanced" | "mixed";
  summary: string;
  resources: LearningResource[];
  children?: LearningNode[];
};

type LearningMap = {
  topic: string;
  targetLevel: "beginner" | "intermediate" | "advanced";
  overview: string;
  nodes: LearningNode[];
};

Guidelines:
- Create 3-7 top-level nodes for most topics.
- Each node should be concrete and actionable (e.g., "HTML & CSS Basics", not "Do front-end").
- Include short, practical summaries for each node.
- For each node, include 1-3 high-quality resources (articles, videos, or books).
- Only include free, openly accessible resources (no paywalls, no login walls, no trials). Prefer official docs, MDN, freeCodeCamp, open textbooks, reputable blogs, and YouTube.
- Avoid paid marketplaces such as Udemy, Coursera, Pluralsight, and Skillshare.
- Prefer stable URLs that are unlikely to break.
- All resources must be about the requested topic. If the topic is non-technical (e.g., gardening), DO NOT suggest programming or web development links.
- For subtopics, nest them in children[] with clear relationships.
- Do NOT include any explanation outside the JSON.
`

// UserPrompt builds the per-request instruction for topic at level.
func UserPrompt(topic string, level models.Level) string {
	return fmt.Sprintf(`Generate a LearningMap JSON for topic: %q.
Target learner level: %q.

The topic could be technical (e.g., "web development") or non-technical (e.g., "gardening").
All resources and summaries must be directly relevant to the topic (no unrelated programming links for non-technical topics).
Focus on clarity and a smooth progression of concepts.
Return ONLY JSON as specified.
`, topic, string(level))
}

// DefaultOverview is used when the model omits an overview.
func DefaultOverview(topic string, level models.Level) string {
	return fmt.Sprintf("A curated learning path to master %s at a %s level.", topic, level)
}
