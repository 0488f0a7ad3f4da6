// Package engine spawns and owns the per-entity actors. All application
// state mutation flows through these actors one message at a time, which is
// what keeps the read-modify-write operations (votes, tallies, count bumps)
// free of interleaving without any locks.
package engine

import (
	"log/slog"

	"github.com/asynkron/protoactor-go/actor"

	"waterhole/internal/engine/actors"
	"waterhole/internal/records"
	"waterhole/internal/session"
	"waterhole/internal/utils"
)

// Engine coordinates communication between actors
type Engine struct {
	system         *actor.ActorSystem
	postActor      *actor.PID
	commentActor   *actor.PID
	communityActor *actor.PID
	userActor      *actor.PID
}

func NewEngine(system *actor.ActorSystem, store records.Client, sessions session.Store, metrics *utils.MetricsCollector, log *slog.Logger) *Engine {
	postPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(store, sessions, metrics, log)
	}))

	// The comment actor notifies the post actor after creates, so it needs
	// the PID up front.
	commentPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(store, postPID, metrics, log)
	}))

	communityPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommunityActor(store, sessions, metrics, log)
	}))

	userPID := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(store, metrics, log)
	}))

	return &Engine{
		system:         system,
		postActor:      postPID,
		commentActor:   commentPID,
		communityActor: communityPID,
		userActor:      userPID,
	}
}

// GetPostActor returns the PID of the post actor
func (e *Engine) GetPostActor() *actor.PID {
	return e.postActor
}

// GetCommentActor returns the PID of the comment actor
func (e *Engine) GetCommentActor() *actor.PID {
	return e.commentActor
}

// GetCommunityActor returns the PID of the community actor
func (e *Engine) GetCommunityActor() *actor.PID {
	return e.communityActor
}

// GetUserActor returns the PID of the user actor
func (e *Engine) GetUserActor() *actor.PID {
	return e.userActor
}
