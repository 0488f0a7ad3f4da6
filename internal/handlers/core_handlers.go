package handlers

import (
	"net/http"

	"waterhole/internal/engine/actors"
)

// HandleHealth reports service liveness along with basic store and
// request counters.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		posts, ok := s.ask(w, s.Engine.GetPostActor(), &actors.CountPostsMsg{})
		if !ok {
			return
		}
		communities, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.CountCommunitiesMsg{})
		if !ok {
			return
		}

		writeJSON(w, map[string]interface{}{
			"status":          "healthy",
			"posts_count":     posts,
			"community_count": communities,
			"uptime":          s.Metrics.Uptime().String(),
			"request_count":   s.Metrics.RequestCount(),
			"error_count":     s.Metrics.ErrorCount(),
			"average_latency": s.Metrics.AverageLatency("actor_request").String(),
		})
	}
}
