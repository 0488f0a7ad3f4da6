package handlers

import (
	"net/http"

	"waterhole/internal/engine/actors"
)

// SearchResponse bundles post and community matches for a combined search.
type SearchResponse struct {
	Posts       interface{} `json:"posts"`
	Communities interface{} `json:"communities"`
}

// HandleSearch searches posts, communities, or both, depending on ?type=.
func (s *Server) HandleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query().Get("q")

		switch r.URL.Query().Get("type") {
		case "posts":
			if result, ok := s.ask(w, s.Engine.GetPostActor(), &actors.SearchPostsMsg{Query: query}); ok {
				writeJSON(w, result)
			}

		case "communities":
			if result, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.SearchCommunitiesMsg{Query: query}); ok {
				writeJSON(w, result)
			}

		default:
			posts, ok := s.ask(w, s.Engine.GetPostActor(), &actors.SearchPostsMsg{Query: query})
			if !ok {
				return
			}
			communities, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.SearchCommunitiesMsg{Query: query})
			if !ok {
				return
			}
			writeJSON(w, SearchResponse{Posts: posts, Communities: communities})
		}
	}
}
