package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"waterhole/internal/engine/actors"
	"waterhole/internal/models"
)

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest carries an explicit optional-field patch.
type UpdateUserRequest struct {
	ID          int     `json:"id"`
	DisplayName *string `json:"displayName"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
	Karma       *int    `json:"karma"`
}

// HandleUsers handles listing, lookup, update and delete of user profiles.
func (s *Server) HandleUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				userID, err := strconv.Atoi(id)
				if err != nil {
					http.Error(w, "Invalid user ID format", http.StatusBadRequest)
					return
				}
				if result, ok := s.ask(w, s.Engine.GetUserActor(), &actors.GetUserMsg{UserID: userID}); ok {
					writeJSON(w, result)
				}
				return
			}

			if username := r.URL.Query().Get("username"); username != "" {
				if result, ok := s.ask(w, s.Engine.GetUserActor(), &actors.GetUserByUsernameMsg{Username: username}); ok {
					writeJSON(w, result)
				}
				return
			}

			if result, ok := s.ask(w, s.Engine.GetUserActor(), &actors.GetAllUsersMsg{}); ok {
				writeJSON(w, result)
			}

		case http.MethodPut:
			var req UpdateUserRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			msg := &actors.UpdateUserMsg{
				UserID: req.ID,
				Patch: models.UserPatch{
					DisplayName: req.DisplayName,
					Avatar:      req.Avatar,
					Bio:         req.Bio,
					Karma:       req.Karma,
				},
			}
			if result, ok := s.ask(w, s.Engine.GetUserActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodDelete:
			userID, err := strconv.Atoi(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid user ID format", http.StatusBadRequest)
				return
			}
			if result, ok := s.ask(w, s.Engine.GetUserActor(), &actors.DeleteUserMsg{UserID: userID}); ok {
				writeJSON(w, result)
			}

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleUserPosts returns a user's posts, newest first.
func (s *Server) HandleUserPosts() http.HandlerFunc {
	return s.handleByUsername(func(username string) interface{} {
		return &actors.GetUserPostsMsg{Username: username}
	})
}

// HandleUserComments returns a user's comments, newest first.
func (s *Server) HandleUserComments() http.HandlerFunc {
	return s.handleByUsername(func(username string) interface{} {
		return &actors.GetUserCommentsMsg{Username: username}
	})
}

// HandleUserActivity returns a user's posts and comments together.
func (s *Server) HandleUserActivity() http.HandlerFunc {
	return s.handleByUsername(func(username string) interface{} {
		return &actors.GetUserActivityMsg{Username: username}
	})
}

// HandleUserKarma returns a user's aggregate karma score.
func (s *Server) HandleUserKarma() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		username := r.URL.Query().Get("username")
		if username == "" {
			http.Error(w, "Username is required", http.StatusBadRequest)
			return
		}

		if result, ok := s.ask(w, s.Engine.GetUserActor(), &actors.GetKarmaMsg{Username: username}); ok {
			writeJSON(w, map[string]interface{}{"username": username, "karma": result})
		}
	}
}

func (s *Server) handleByUsername(build func(username string) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		username := r.URL.Query().Get("username")
		if username == "" {
			http.Error(w, "Username is required", http.StatusBadRequest)
			return
		}

		if result, ok := s.ask(w, s.Engine.GetUserActor(), build(username)); ok {
			writeJSON(w, result)
		}
	}
}

// HandleUserRegistration creates a new account.
func (s *Server) HandleUserRegistration() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		msg := &actors.RegisterUserMsg{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			Password:    req.Password,
			Avatar:      req.Avatar,
			Bio:         req.Bio,
		}
		if result, ok := s.ask(w, s.Engine.GetUserActor(), msg); ok {
			writeJSON(w, result)
		}
	}
}

// HandleUserLogin authenticates a user and issues a token.
func (s *Server) HandleUserLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if result, ok := s.ask(w, s.Engine.GetUserActor(), &actors.LoginMsg{Username: req.Username, Password: req.Password}); ok {
			writeJSON(w, result)
		}
	}
}
