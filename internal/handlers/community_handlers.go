package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"waterhole/internal/engine/actors"
	"waterhole/internal/models"
)

// CreateCommunityRequest represents a request to create a new community
type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// UpdateCommunityRequest carries an explicit optional-field patch.
type UpdateCommunityRequest struct {
	ID          int     `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	MemberCount *int    `json:"memberCount"`
	Color       *string `json:"color"`
}

// CommunityMembershipRequest joins or leaves a community.
type CommunityMembershipRequest struct {
	CommunityID int `json:"communityId"`
}

// HandleCommunities handles listing, lookup, create, update and delete.
func (s *Server) HandleCommunities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				communityID, err := strconv.Atoi(id)
				if err != nil {
					http.Error(w, "Invalid community ID format", http.StatusBadRequest)
					return
				}
				if result, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.GetCommunityMsg{CommunityID: communityID}); ok {
					writeJSON(w, result)
				}
				return
			}

			if name := r.URL.Query().Get("name"); name != "" {
				if result, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.GetCommunityByNameMsg{Name: name}); ok {
					writeJSON(w, result)
				}
				return
			}

			if result, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.GetAllCommunitiesMsg{}); ok {
				writeJSON(w, result)
			}

		case http.MethodPost:
			var req CreateCommunityRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			msg := &actors.CreateCommunityMsg{
				Name:        req.Name,
				Description: req.Description,
				Icon:        req.Icon,
				Color:       req.Color,
			}
			if result, ok := s.ask(w, s.Engine.GetCommunityActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodPut:
			var req UpdateCommunityRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			msg := &actors.UpdateCommunityMsg{
				CommunityID: req.ID,
				Patch: models.CommunityPatch{
					Name:        req.Name,
					Description: req.Description,
					Icon:        req.Icon,
					MemberCount: req.MemberCount,
					Color:       req.Color,
				},
			}
			if result, ok := s.ask(w, s.Engine.GetCommunityActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodDelete:
			communityID, err := strconv.Atoi(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid community ID format", http.StatusBadRequest)
				return
			}
			if result, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.DeleteCommunityMsg{CommunityID: communityID}); ok {
				writeJSON(w, result)
			}

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleJoinCommunity adds the acting user's membership
func (s *Server) HandleJoinCommunity() http.HandlerFunc {
	return s.handleMembership(func(userID, communityID int) interface{} {
		return &actors.JoinCommunityMsg{UserID: userID, CommunityID: communityID}
	})
}

// HandleLeaveCommunity removes the acting user's membership
func (s *Server) HandleLeaveCommunity() http.HandlerFunc {
	return s.handleMembership(func(userID, communityID int) interface{} {
		return &actors.LeaveCommunityMsg{UserID: userID, CommunityID: communityID}
	})
}

func (s *Server) handleMembership(build func(userID, communityID int) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req CommunityMembershipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if result, ok := s.ask(w, s.Engine.GetCommunityActor(), build(requestUserID(r), req.CommunityID)); ok {
			writeJSON(w, result)
		}
	}
}

// HandleJoinedCommunities lists the acting user's joined community ids;
// with ?id= it reports a single community's membership instead.
func (s *Server) HandleJoinedCommunities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID := requestUserID(r)
		if id := r.URL.Query().Get("id"); id != "" {
			communityID, err := strconv.Atoi(id)
			if err != nil {
				http.Error(w, "Invalid community ID format", http.StatusBadRequest)
				return
			}
			if result, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.IsJoinedMsg{UserID: userID, CommunityID: communityID}); ok {
				writeJSON(w, map[string]interface{}{"joined": result})
			}
			return
		}

		if result, ok := s.ask(w, s.Engine.GetCommunityActor(), &actors.GetJoinedCommunitiesMsg{UserID: userID}); ok {
			writeJSON(w, result)
		}
	}
}
