package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"waterhole/internal/engine"
	"waterhole/internal/middleware"
	"waterhole/internal/utils"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Log            *slog.Logger
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(system *actor.ActorSystem, eng *engine.Engine, metrics *utils.MetricsCollector, log *slog.Logger) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		Log:            log.With("component", "http"),
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// Routes wires every endpoint onto a mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth())

	mux.HandleFunc("/posts", s.HandlePosts())
	mux.HandleFunc("/posts/vote", s.HandlePostVote())
	mux.HandleFunc("/posts/poll-vote", s.HandlePollVote())
	mux.HandleFunc("/posts/save", s.HandleToggleSave())
	mux.HandleFunc("/posts/saved", s.HandleSavedPosts())

	mux.HandleFunc("/comments", s.HandleComments())
	mux.HandleFunc("/comments/vote", s.HandleCommentVote())

	mux.HandleFunc("/communities", s.HandleCommunities())
	mux.HandleFunc("/communities/join", s.HandleJoinCommunity())
	mux.HandleFunc("/communities/leave", s.HandleLeaveCommunity())
	mux.HandleFunc("/communities/joined", s.HandleJoinedCommunities())

	mux.HandleFunc("/users", s.HandleUsers())
	mux.HandleFunc("/users/posts", s.HandleUserPosts())
	mux.HandleFunc("/users/comments", s.HandleUserComments())
	mux.HandleFunc("/users/activity", s.HandleUserActivity())
	mux.HandleFunc("/users/karma", s.HandleUserKarma())
	mux.HandleFunc("/user/register", s.HandleUserRegistration())
	mux.HandleFunc("/user/login", s.HandleUserLogin())

	mux.HandleFunc("/search", s.HandleSearch())

	return mux
}

// ask sends a message to an actor and waits for the reply. Actor failures
// and typed AppError replies are written straight to the response; callers
// only see successful results.
func (s *Server) ask(w http.ResponseWriter, pid *actor.PID, msg interface{}) (interface{}, bool) {
	s.Metrics.IncrementRequests()
	start := time.Now()

	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	s.Metrics.AddOperationLatency("actor_request", time.Since(start))
	if err != nil {
		s.Metrics.IncrementErrors()
		s.Log.Error("actor request failed", "error", err)
		http.Error(w, "Request timed out", http.StatusInternalServerError)
		return nil, false
	}

	if appErr, ok := result.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		http.Error(w, appErr.Message, utils.AppErrorToHTTPStatus(appErr.Code))
		return nil, false
	}

	return result, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// requestUserID resolves the acting user from the JWT, falling back to the
// shared anonymous session when the request carries no token.
func requestUserID(r *http.Request) int {
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		return userID
	}
	return 0
}
