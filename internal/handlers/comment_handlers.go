package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"waterhole/internal/engine/actors"
	"waterhole/internal/models"
)

// CreateCommentRequest represents a request to create a comment
type CreateCommentRequest struct {
	PostID   int    `json:"postId"`
	ParentID *int   `json:"parentId"`
	Author   string `json:"author"`
	Content  string `json:"content"`
}

// EditCommentRequest patches a comment.
type EditCommentRequest struct {
	ID      int     `json:"id"`
	Content *string `json:"content"`
	Score   *int    `json:"score"`
}

// VoteCommentRequest casts a vote on a comment.
type VoteCommentRequest struct {
	CommentID int `json:"commentId"`
	Value     int `json:"value"`
}

// HandleComments handles comment listing, lookup, create, edit and delete.
func (s *Server) HandleComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if id := r.URL.Query().Get("id"); id != "" {
				commentID, err := strconv.Atoi(id)
				if err != nil {
					http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
					return
				}
				if result, ok := s.ask(w, s.Engine.GetCommentActor(), &actors.GetCommentMsg{CommentID: commentID}); ok {
					writeJSON(w, result)
				}
				return
			}

			postID, err := strconv.Atoi(r.URL.Query().Get("postId"))
			if err != nil {
				http.Error(w, "postId is required", http.StatusBadRequest)
				return
			}
			if result, ok := s.ask(w, s.Engine.GetCommentActor(), &actors.GetPostCommentsMsg{PostID: postID}); ok {
				writeJSON(w, result)
			}

		case http.MethodPost:
			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			msg := &actors.CreateCommentMsg{
				PostID:   req.PostID,
				ParentID: req.ParentID,
				Author:   req.Author,
				Content:  req.Content,
			}
			if result, ok := s.ask(w, s.Engine.GetCommentActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodPut:
			var req EditCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			msg := &actors.EditCommentMsg{
				CommentID: req.ID,
				Patch:     models.CommentPatch{Content: req.Content, Score: req.Score},
			}
			if result, ok := s.ask(w, s.Engine.GetCommentActor(), msg); ok {
				writeJSON(w, result)
			}

		case http.MethodDelete:
			commentID, err := strconv.Atoi(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid comment ID format", http.StatusBadRequest)
				return
			}
			if result, ok := s.ask(w, s.Engine.GetCommentActor(), &actors.DeleteCommentMsg{CommentID: commentID}); ok {
				writeJSON(w, result)
			}

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleCommentVote handles vote casting on comments
func (s *Server) HandleCommentVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req VoteCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		if result, ok := s.ask(w, s.Engine.GetCommentActor(), &actors.VoteCommentMsg{CommentID: req.CommentID, Value: req.Value}); ok {
			writeJSON(w, result)
		}
	}
}
