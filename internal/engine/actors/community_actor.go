package actors

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"waterhole/internal/models"
	"waterhole/internal/records"
	"waterhole/internal/search"
	"waterhole/internal/session"
	"waterhole/internal/utils"
)

// Message types for Community operations
type (
	SearchCommunitiesMsg struct {
		Query string
	}

	GetAllCommunitiesMsg struct{}

	GetCommunityMsg struct {
		CommunityID int
	}

	GetCommunityByNameMsg struct {
		Name string
	}

	CreateCommunityMsg struct {
		Name        string
		Description string
		Icon        string
		Color       string
	}

	UpdateCommunityMsg struct {
		CommunityID int
		Patch       models.CommunityPatch
	}

	DeleteCommunityMsg struct {
		CommunityID int
	}

	JoinCommunityMsg struct {
		UserID      int
		CommunityID int
	}

	LeaveCommunityMsg struct {
		UserID      int
		CommunityID int
	}

	IsJoinedMsg struct {
		UserID      int
		CommunityID int
	}

	GetJoinedCommunitiesMsg struct {
		UserID int
	}

	CountCommunitiesMsg struct{}
)

// CommunityActor handles community CRUD and search against the record store.
// Join state is deliberately session-local: the remote schema has no
// membership relation.
type CommunityActor struct {
	store    records.Client
	sessions session.Store
	metrics  *utils.MetricsCollector
	log      *slog.Logger
}

func NewCommunityActor(store records.Client, sessions session.Store, metrics *utils.MetricsCollector, log *slog.Logger) actor.Actor {
	return &CommunityActor{
		store:    store,
		sessions: sessions,
		metrics:  metrics,
		log:      log.With("actor", "community"),
	}
}

func (a *CommunityActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.log.Info("community actor started")
	case *actor.Stopping:
		a.log.Info("community actor stopping")

	case *SearchCommunitiesMsg:
		a.handleSearch(context, msg)
	case *GetAllCommunitiesMsg:
		a.handleGetAll(context)
	case *GetCommunityMsg:
		a.handleGet(context, msg)
	case *GetCommunityByNameMsg:
		a.handleGetByName(context, msg)
	case *CreateCommunityMsg:
		a.handleCreate(context, msg)
	case *UpdateCommunityMsg:
		a.handleUpdate(context, msg)
	case *DeleteCommunityMsg:
		a.handleDelete(context, msg)
	case *JoinCommunityMsg:
		a.handleJoin(context, msg)
	case *LeaveCommunityMsg:
		a.handleLeave(context, msg)
	case *IsJoinedMsg:
		a.handleIsJoined(context, msg)
	case *GetJoinedCommunitiesMsg:
		a.handleGetJoined(context, msg)
	case *CountCommunitiesMsg:
		a.handleCount(context)

	default:
		a.log.Warn("unknown message", "type", fmt.Sprintf("%T", msg))
	}
}

func (a *CommunityActor) guard(context actor.Context) bool {
	if a.store == nil {
		context.Respond(utils.NewAppError(utils.ErrNotInitialized, "record store not initialized", nil))
		return false
	}
	return true
}

func (a *CommunityActor) fetchAll(ctx stdctx.Context, query records.Query) ([]*models.Community, error) {
	query.Fields = models.CommunityFields
	recs, err := a.store.FetchRecords(ctx, records.TableCommunities, query)
	if err != nil {
		return nil, err
	}
	communities := make([]*models.Community, 0, len(recs))
	for _, rec := range recs {
		communities = append(communities, models.CommunityFromRecord(rec))
	}
	return communities, nil
}

func (a *CommunityActor) handleSearch(context actor.Context, msg *SearchCommunitiesMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	if strings.TrimSpace(msg.Query) == "" {
		context.Respond([]search.CommunityResult{})
		return
	}

	communities, err := a.fetchAll(stdctx.Background(), records.Query{})
	if err != nil {
		a.log.Error("community search fetch failed", "error", err)
		context.Respond([]search.CommunityResult{})
		return
	}

	a.metrics.AddOperationLatency("search_communities", time.Since(startTime))
	context.Respond(search.Communities(msg.Query, communities))
}

func (a *CommunityActor) handleGetAll(context actor.Context) {
	if !a.guard(context) {
		return
	}
	communities, err := a.fetchAll(stdctx.Background(), records.Query{
		OrderBy: []records.OrderBy{{Field: models.CommunityFieldMemberCount, Desc: true}},
	})
	if err != nil {
		a.log.Error("fetching communities failed", "error", err)
		context.Respond([]*models.Community{})
		return
	}
	context.Respond(communities)
}

func (a *CommunityActor) handleGet(context actor.Context, msg *GetCommunityMsg) {
	if !a.guard(context) {
		return
	}
	rec, err := a.store.GetRecordByID(stdctx.Background(), records.TableCommunities, msg.CommunityID, records.Query{Fields: models.CommunityFields})
	if err != nil {
		context.Respond(asAppError(err, "community"))
		return
	}
	context.Respond(models.CommunityFromRecord(rec))
}

func (a *CommunityActor) handleGetByName(context actor.Context, msg *GetCommunityByNameMsg) {
	if !a.guard(context) {
		return
	}
	communities, err := a.fetchAll(stdctx.Background(), records.Query{
		Where: []records.Where{{
			FieldName: models.CommunityFieldNameC,
			Operator:  records.OpEqualTo,
			Values:    []any{msg.Name},
		}},
		Paging: &records.Paging{Limit: 1, Offset: 0},
	})
	if err != nil {
		context.Respond(asAppError(err, "community"))
		return
	}
	if len(communities) == 0 {
		context.Respond(utils.NewNotFoundError("community"))
		return
	}
	context.Respond(communities[0])
}

func (a *CommunityActor) handleCreate(context actor.Context, msg *CreateCommunityMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	if msg.Name == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "name is required", nil))
		return
	}

	icon := msg.Icon
	if icon == "" {
		icon = models.DefaultCommunityIcon
	}
	color := msg.Color
	if color == "" {
		color = models.DefaultCommunityColor
	}

	// The creator is the first member.
	fields := records.Record{
		models.CommunityFieldName:        msg.Name,
		models.CommunityFieldNameC:       msg.Name,
		models.CommunityFieldDescription: msg.Description,
		models.CommunityFieldIcon:        icon,
		models.CommunityFieldMemberCount: 1,
		models.CommunityFieldColor:       color,
	}

	rec, err := a.store.CreateRecord(stdctx.Background(), records.TableCommunities, fields)
	if err != nil {
		a.log.Error("creating community failed", "name", msg.Name, "error", err)
		context.Respond(asAppError(err, "community"))
		return
	}

	a.metrics.AddOperationLatency("create_community", time.Since(startTime))
	context.Respond(models.CommunityFromRecord(rec))
}

func (a *CommunityActor) handleUpdate(context actor.Context, msg *UpdateCommunityMsg) {
	if !a.guard(context) {
		return
	}
	rec, err := a.store.UpdateRecord(stdctx.Background(), records.TableCommunities, msg.CommunityID, msg.Patch.Record())
	if err != nil {
		a.log.Error("updating community failed", "community_id", msg.CommunityID, "error", err)
		context.Respond(asAppError(err, "community"))
		return
	}
	context.Respond(models.CommunityFromRecord(rec))
}

func (a *CommunityActor) handleDelete(context actor.Context, msg *DeleteCommunityMsg) {
	if !a.guard(context) {
		return
	}
	if err := a.store.DeleteRecords(stdctx.Background(), records.TableCommunities, []int{msg.CommunityID}); err != nil {
		a.log.Error("deleting community failed", "community_id", msg.CommunityID, "error", err)
		context.Respond(asAppError(err, "community"))
		return
	}
	context.Respond(true)
}

func (a *CommunityActor) handleJoin(context actor.Context, msg *JoinCommunityMsg) {
	if err := a.sessions.JoinCommunity(stdctx.Background(), msg.UserID, msg.CommunityID); err != nil {
		a.log.Error("joining community failed", "community_id", msg.CommunityID, "error", err)
		context.Respond(utils.NewAppError(utils.ErrRemoteRejected, "failed to join community", err))
		return
	}
	context.Respond(true)
}

func (a *CommunityActor) handleLeave(context actor.Context, msg *LeaveCommunityMsg) {
	if err := a.sessions.LeaveCommunity(stdctx.Background(), msg.UserID, msg.CommunityID); err != nil {
		a.log.Error("leaving community failed", "community_id", msg.CommunityID, "error", err)
		context.Respond(utils.NewAppError(utils.ErrRemoteRejected, "failed to leave community", err))
		return
	}
	context.Respond(true)
}

func (a *CommunityActor) handleIsJoined(context actor.Context, msg *IsJoinedMsg) {
	joined, err := a.sessions.IsJoined(stdctx.Background(), msg.UserID, msg.CommunityID)
	if err != nil {
		a.log.Error("join lookup failed", "community_id", msg.CommunityID, "error", err)
		context.Respond(false)
		return
	}
	context.Respond(joined)
}

func (a *CommunityActor) handleGetJoined(context actor.Context, msg *GetJoinedCommunitiesMsg) {
	ids, err := a.sessions.JoinedCommunities(stdctx.Background(), msg.UserID)
	if err != nil {
		a.log.Error("joined set fetch failed", "error", err)
		context.Respond([]int{})
		return
	}
	context.Respond(ids)
}

func (a *CommunityActor) handleCount(context actor.Context) {
	if !a.guard(context) {
		return
	}
	recs, err := a.store.FetchRecords(stdctx.Background(), records.TableCommunities, records.Query{
		Fields: []string{models.CommunityFieldName},
	})
	if err != nil {
		context.Respond(0)
		return
	}
	context.Respond(len(recs))
}
