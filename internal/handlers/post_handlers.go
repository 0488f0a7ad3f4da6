package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"waterhole/internal/engine/actors"
	"waterhole/internal/models"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Author      string              `json:"author"`
	Community   string              `json:"community"`
	Tags        []string            `json:"tags"`
	PostType    string              `json:"postType"`
	ImageURL    string              `json:"imageUrl"`
	LinkURL     string              `json:"linkUrl"`
	PollOptions []models.PollOption `json:"pollOptions"`
}

// UpdatePostRequest carries an explicit optional-field patch.
type UpdatePostRequest struct {
	ID           int                 `json:"id"`
	Title        *string             `json:"title"`
	Content      *string             `json:"content"`
	Score        *int                `json:"score"`
	UserVote     *int                `json:"userVote"`
	CommentCount *int                `json:"commentCount"`
	Tags         []string            `json:"tags"`
	PollOptions  []models.PollOption `json:"pollOptions"`
	UserPollVote *int                `json:"userPollVote"`
}

// VotePostRequest casts a vote on a post.
type VotePostRequest struct {
	PostID int `json:"postId"`
	Value  int `json:"value"`
}

// PollVoteRequest casts a poll vote.
type PollVoteRequest struct {
	PostID   int `json:"postId"`
	OptionID int `json:"optionId"`
}

// SavePostRequest toggles saved-post membership.
type SavePostRequest struct {
	PostID int `json:"postId"`
}

// HandlePosts handles listing, single lookup, create, update and delete.
func (s *Server) HandlePosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				postID, err := strconv.Atoi(id)
				if err != nil {
					http.Error(w, "Invalid post ID format", http.StatusBadRequest)
					return
				}
				if result, ok := s.ask(w, s.Engine.GetPostActor(), &actors.GetPostMsg{PostID: postID}); ok {
					writeJSON(w, result)
				}
				return
			}

			var msg interface{} = &actors.GetAllPostsMsg{}
			if community := r.URL.Query().Get("community"); community != "" {
				msg = &actors.GetCommunityPostsMsg{Community: community}
			} else if r.URL.Query().Get("popular") == "true" {
				msg = &actors.GetPopularPostsMsg{}
			}
			if result, ok := s.ask(w, s.Engine.GetPostActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodPost:
			var req CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			msg := &actors.CreatePostMsg{
				Title:       req.Title,
				Content:     req.Content,
				Author:      req.Author,
				Community:   req.Community,
				Tags:        req.Tags,
				PostType:    req.PostType,
				ImageURL:    req.ImageURL,
				LinkURL:     req.LinkURL,
				PollOptions: req.PollOptions,
			}
			if result, ok := s.ask(w, s.Engine.GetPostActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodPut:
			var req UpdatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			msg := &actors.UpdatePostMsg{
				PostID: req.ID,
				Patch: models.PostPatch{
					Title:        req.Title,
					Content:      req.Content,
					Score:        req.Score,
					UserVote:     req.UserVote,
					CommentCount: req.CommentCount,
					Tags:         req.Tags,
					PollOptions:  req.PollOptions,
					UserPollVote: req.UserPollVote,
				},
			}
			if result, ok := s.ask(w, s.Engine.GetPostActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodDelete:
			postID, err := strconv.Atoi(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid post ID format", http.StatusBadRequest)
				return
			}
			if result, ok := s.ask(w, s.Engine.GetPostActor(), &actors.DeletePostMsg{PostID: postID}); ok {
				writeJSON(w, result)
			}

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandlePostVote handles vote casting on posts
func (s *Server) HandlePostVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req VotePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if result, ok := s.ask(w, s.Engine.GetPostActor(), &actors.VotePostMsg{PostID: req.PostID, Value: req.Value}); ok {
			writeJSON(w, result)
		}
	}
}

// HandlePollVote handles poll option voting
func (s *Server) HandlePollVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req PollVoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if result, ok := s.ask(w, s.Engine.GetPostActor(), &actors.PollVoteMsg{PostID: req.PostID, OptionID: req.OptionID}); ok {
			writeJSON(w, result)
		}
	}
}

// HandleToggleSave flips saved-post membership for the acting user
func (s *Server) HandleToggleSave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req SavePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		msg := &actors.ToggleSavePostMsg{UserID: requestUserID(r), PostID: req.PostID}
		if result, ok := s.ask(w, s.Engine.GetPostActor(), msg); ok {
			writeJSON(w, result)
		}
	}
}

// HandleSavedPosts lists the acting user's saved posts; with ?id= it reports
// a single post's membership instead.
func (s *Server) HandleSavedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID := requestUserID(r)
		if id := r.URL.Query().Get("id"); id != "" {
			postID, err := strconv.Atoi(id)
			if err != nil {
				http.Error(w, "Invalid post ID format", http.StatusBadRequest)
				return
			}
			if result, ok := s.ask(w, s.Engine.GetPostActor(), &actors.IsPostSavedMsg{UserID: userID, PostID: postID}); ok {
				writeJSON(w, map[string]interface{}{"saved": result})
			}
			return
		}

		if result, ok := s.ask(w, s.Engine.GetPostActor(), &actors.GetSavedPostsMsg{UserID: userID}); ok {
			writeJSON(w, result)
		}
	}
}
