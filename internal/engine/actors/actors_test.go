package actors

import (
	"io"
	"log/slog"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"waterhole/internal/records"
	"waterhole/internal/session"
	"waterhole/internal/utils"
)

const testTimeout = 5 * time.Second

// testEnv bundles the collaborators every actor test needs.
type testEnv struct {
	system   *actor.ActorSystem
	store    *records.MemoryClient
	sessions *session.MemoryStore
	metrics  *utils.MetricsCollector
	log      *slog.Logger
}

func newTestEnv() *testEnv {
	return &testEnv{
		system:   actor.NewActorSystem(),
		store:    records.NewMemoryClient(),
		sessions: session.NewMemoryStore(),
		metrics:  utils.NewMetricsCollector(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (e *testEnv) spawnPostActor() *actor.PID {
	return e.system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewPostActor(e.store, e.sessions, e.metrics, e.log)
	}))
}

func (e *testEnv) spawnCommentActor(postPID *actor.PID) *actor.PID {
	return e.system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(e.store, postPID, e.metrics, e.log)
	}))
}

func (e *testEnv) spawnCommunityActor() *actor.PID {
	return e.system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewCommunityActor(e.store, e.sessions, e.metrics, e.log)
	}))
}

func (e *testEnv) spawnUserActor() *actor.PID {
	return e.system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(e.store, e.metrics, e.log)
	}))
}

// ask is the request/reply helper used throughout the actor tests.
func (e *testEnv) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	return e.system.Root.RequestFuture(pid, msg, testTimeout).Result()
}
