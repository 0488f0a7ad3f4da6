// Package search implements the client-side scan used for site search: a
// case-insensitive substring match over an already-fetched collection, with
// a bounded snippet around the first occurrence. Results keep the input
// collection's order; this is a linear scan, not a ranked search engine.
package search

import (
	"strings"

	"waterhole/internal/models"
)

// Snippet margins, in characters around the match.
const (
	titleMargin = 30
	bodyMargin  = 40
)

// PostResult pairs a matched post with a human-readable snippet.
type PostResult struct {
	Post    *models.Post `json:"post"`
	Snippet string       `json:"snippet"`
}

// CommunityResult pairs a matched community with a snippet.
type CommunityResult struct {
	Community *models.Community `json:"community"`
	Snippet   string            `json:"snippet"`
}

// Posts scans posts for the query. Snippet source priority: title, content,
// tag, author. An empty or whitespace-only query matches nothing.
func Posts(query string, posts []*models.Post) []PostResult {
	term := normalize(query)
	if term == "" {
		return []PostResult{}
	}

	results := []PostResult{}
	for _, post := range posts {
		switch {
		case contains(post.Title, term):
			results = append(results, PostResult{post, snippet(post.Title, term, titleMargin)})
		case contains(post.Content, term):
			results = append(results, PostResult{post, snippet(post.Content, term, bodyMargin)})
		case matchTag(post.Tags, term) != "":
			results = append(results, PostResult{post, "Tagged with: " + matchTag(post.Tags, term)})
		case contains(post.Author, term):
			results = append(results, PostResult{post, "Posted by u/" + post.Author})
		}
	}
	return results
}

// Communities scans communities for the query. Snippet source priority:
// name, description.
func Communities(query string, communities []*models.Community) []CommunityResult {
	term := normalize(query)
	if term == "" {
		return []CommunityResult{}
	}

	results := []CommunityResult{}
	for _, community := range communities {
		switch {
		case contains(community.Name, term):
			results = append(results, CommunityResult{community, snippet(community.Name, term, bodyMargin)})
		case contains(community.Description, term):
			results = append(results, CommunityResult{community, snippet(community.Description, term, bodyMargin)})
		}
	}
	return results
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func contains(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}

func matchTag(tags []string, term string) string {
	for _, tag := range tags {
		if contains(tag, term) {
			return tag
		}
	}
	return ""
}

// snippet extracts the match window plus margin, clipped to field bounds and
// trimmed of surrounding whitespace.
func snippet(field, term string, margin int) string {
	index := strings.Index(strings.ToLower(field), term)
	if index < 0 || index > len(field) {
		return strings.TrimSpace(field)
	}

	start := index - margin
	if start < 0 {
		start = 0
	}
	end := index + len(term) + margin
	if end > len(field) {
		end = len(field)
	}
	if start > end {
		start = end
	}
	return strings.TrimSpace(field[start:end])
}
