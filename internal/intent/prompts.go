package intent

import (
	"fmt"
	"strings"

	"github.com/fetcharr/fetcharr/internal/search/types"
)

// buildExtractPrompt embeds the raw request and the required output schema.
func buildExtractPrompt(query string) string {
	return fmt.Sprintf(`
You are a torrent search assistant. Parse the following natural language query into structured JSON.

Query: %q

Extract the following information:
1. Content type (movie, tv_show, music, software, book, game, other)
2. Title of the content
3. For TV shows: season number, episode number(s), whether they want complete season/series
4. Year (if mentioned)
5. Quality preferences (1080p, 4K, BluRay, etc.)
6. Language preferences
7. Any other relevant context

Respond with ONLY valid JSON in this format:
{
    "content_type": "tv_show",
    "title": "Breaking Bad",
    "year": null,
    "tv_details": {
        "season": 2,
        "episode": null,
        "episode_range": null,
        "complete_season": true,
        "complete_series": false
    },
    "quality_preferences": [],
    "language": null,
    "additional_context": []
}
`, query)
}

// buildPlanPrompt asks for ordered query variants for the given intent.
func buildPlanPrompt(intent *types.SearchIntent) string {
	return fmt.Sprintf(`
Generate optimized search queries for finding: %s - %s%s

Create multiple search query variations that torrent sites would understand:
1. Primary queries - most likely to find exact matches
2. Fallback queries - broader searches if primary fails
3. Scraper-specific hints - special formats for different sites

Consider variations like:
- "Breaking Bad S02" vs "Breaking Bad Season 2"
- With/without year
- Complete/Full/All episodes
- Different quality indicators

Respond with JSON:
{
    "primary_queries": ["query1", "query2"],
    "fallback_queries": ["query3"],
    "scraper_hints": {
        "piratebay": ["special format"],
        "yts": ["movie specific format"]
    }
}
`, intent.ContentType.Display(), intent.Title, DescribeTarget(intent))
}

// DescribeTarget renders the season/episode suffix used by the plan and
// evaluation prompts.
func DescribeTarget(intent *types.SearchIntent) string {
	if intent.TVDetails == nil || intent.TVDetails.Season == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, " Season %d", *intent.TVDetails.Season)
	if intent.TVDetails.Episode != nil {
		fmt.Fprintf(&b, " Episode %d", *intent.TVDetails.Episode)
	}
	return b.String()
}
