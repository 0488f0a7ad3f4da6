package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterhole/internal/engine"
	"waterhole/internal/models"
	"waterhole/internal/records"
	"waterhole/internal/session"
	"waterhole/internal/utils"
)

func newTestServer() *Server {
	system := actor.NewActorSystem()
	metrics := utils.NewMetricsCollector()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.NewEngine(system, records.NewMemoryClient(), session.NewMemoryStore(), metrics, log)
	return NewServer(system, eng, metrics, log)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestPostEndpointsFlow(t *testing.T) {
	mux := newTestServer().Routes()

	// Create
	var post models.Post
	w := doJSON(t, mux, http.MethodPost, "/posts", CreatePostRequest{
		Title:     "Hello",
		Content:   "World",
		Author:    "alice",
		Community: "golang",
	}, &post)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, post.ID)
	assert.Equal(t, 1, post.Score)

	// Fetch it back
	w = doJSON(t, mux, http.MethodGet, "/posts?id=1", nil, &post)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello", post.Title)

	// Vote: downvote flips the author's upvote
	w = doJSON(t, mux, http.MethodPost, "/posts/vote", VotePostRequest{PostID: 1, Value: -1}, &post)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -1, post.Score)
	assert.Equal(t, models.VoteDown, post.UserVote)

	// Unknown post surfaces as 404
	w = doJSON(t, mux, http.MethodGet, "/posts?id=99", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Invalid vote magnitude surfaces as 400
	w = doJSON(t, mux, http.MethodPost, "/posts/vote", VotePostRequest{PostID: 1, Value: 5}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Community filter
	var posts []models.Post
	w = doJSON(t, mux, http.MethodGet, "/posts?community=golang", nil, &posts)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, posts, 1)
}

func TestSaveEndpoints(t *testing.T) {
	mux := newTestServer().Routes()

	w := doJSON(t, mux, http.MethodPost, "/posts", CreatePostRequest{Title: "Keep", Author: "a"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var save struct {
		Saved bool `json:"saved"`
	}
	w = doJSON(t, mux, http.MethodPost, "/posts/save", SavePostRequest{PostID: 1}, &save)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, save.Saved)

	w = doJSON(t, mux, http.MethodGet, "/posts/saved?id=1", nil, &save)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, save.Saved)

	var saved []models.Post
	w = doJSON(t, mux, http.MethodGet, "/posts/saved", nil, &saved)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, saved, 1)
	assert.Equal(t, "Keep", saved[0].Title)
}

func TestCommunityEndpoints(t *testing.T) {
	mux := newTestServer().Routes()

	var community models.Community
	w := doJSON(t, mux, http.MethodPost, "/communities", CreateCommunityRequest{
		Name:        "golang",
		Description: "Gophers",
	}, &community)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, community.MemberCount)

	w = doJSON(t, mux, http.MethodGet, "/communities?name=golang", nil, &community)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, community.ID)

	w = doJSON(t, mux, http.MethodGet, "/communities?name=missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Join, check, leave. Anonymous requests share the same session user.
	w = doJSON(t, mux, http.MethodPost, "/communities/join", CommunityMembershipRequest{CommunityID: 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var joined []int
	w = doJSON(t, mux, http.MethodGet, "/communities/joined", nil, &joined)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{1}, joined)

	w = doJSON(t, mux, http.MethodPost, "/communities/leave", CommunityMembershipRequest{CommunityID: 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, http.MethodGet, "/communities/joined", nil, &joined)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, joined)
}

func TestUserEndpoints(t *testing.T) {
	mux := newTestServer().Routes()

	var user models.User
	w := doJSON(t, mux, http.MethodPost, "/user/register", RegisterRequest{
		Username: "alice",
		Password: "hunter2secret",
	}, &user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", user.Username)

	w = doJSON(t, mux, http.MethodPost, "/user/register", RegisterRequest{
		Username: "alice",
		Password: "again",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		UserID  string `json:"userId"`
	}
	w = doJSON(t, mux, http.MethodPost, "/user/login", LoginRequest{
		Username: "alice",
		Password: "hunter2secret",
	}, &login)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, login.Success)
	assert.NotEmpty(t, login.Token)

	var karma struct {
		Username string `json:"username"`
		Karma    int    `json:"karma"`
	}
	w = doJSON(t, mux, http.MethodGet, "/users/karma?username=alice", nil, &karma)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, karma.Karma)

	w = doJSON(t, mux, http.MethodGet, "/users/karma", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	mux := newTestServer().Routes()

	w := doJSON(t, mux, http.MethodPost, "/posts", CreatePostRequest{Title: "Cats are great", Author: "a"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, mux, http.MethodPost, "/communities", CreateCommunityRequest{Name: "catlovers"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var combined struct {
		Posts       []json.RawMessage `json:"posts"`
		Communities []json.RawMessage `json:"communities"`
	}
	w = doJSON(t, mux, http.MethodGet, "/search?q=cat", nil, &combined)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, combined.Posts, 1)
	assert.Len(t, combined.Communities, 1)

	// Empty query matches nothing
	w = doJSON(t, mux, http.MethodGet, "/search?q=&type=posts", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestServer().Routes()

	var health struct {
		Status     string `json:"status"`
		PostsCount int    `json:"posts_count"`
	}
	w := doJSON(t, mux, http.MethodGet, "/health", nil, &health)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 0, health.PostsCount)
}
