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

// Posts with at least this score count as popular.
const popularScoreThreshold = 50

// Message types for Post operations
type (
	SearchPostsMsg struct {
		Query string
	}

	GetAllPostsMsg struct{}

	GetPostMsg struct {
		PostID int
	}

	GetPopularPostsMsg struct{}

	GetCommunityPostsMsg struct {
		Community string
	}

	CreatePostMsg struct {
		Title       string
		Content     string
		Author      string
		Community   string
		Tags        []string
		PostType    string
		ImageURL    string
		LinkURL     string
		PollOptions []models.PollOption
	}

	UpdatePostMsg struct {
		PostID int
		Patch  models.PostPatch
	}

	DeletePostMsg struct {
		PostID int
	}

	VotePostMsg struct {
		PostID int
		Value  int
	}

	PollVoteMsg struct {
		PostID   int
		OptionID int
	}

	// AddCommentMsg bumps a post's comment count. Sent by the comment actor
	// after a successful create.
	AddCommentMsg struct {
		PostID int
	}

	ToggleSavePostMsg struct {
		UserID int
		PostID int
	}

	IsPostSavedMsg struct {
		UserID int
		PostID int
	}

	GetSavedPostsMsg struct {
		UserID int
	}

	CountPostsMsg struct{}
)

// SaveStateResponse reports the new membership state after a save toggle.
type SaveStateResponse struct {
	Saved bool `json:"saved"`
}

// PostActor handles every post operation: CRUD against the record store,
// vote and poll tallying, search, and the saved-posts set.
type PostActor struct {
	store    records.Client
	sessions session.Store
	metrics  *utils.MetricsCollector
	log      *slog.Logger
}

func NewPostActor(store records.Client, sessions session.Store, metrics *utils.MetricsCollector, log *slog.Logger) actor.Actor {
	return &PostActor{
		store:    store,
		sessions: sessions,
		metrics:  metrics,
		log:      log.With("actor", "post"),
	}
}

func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.log.Info("post actor started")
	case *actor.Stopping:
		a.log.Info("post actor stopping")

	case *SearchPostsMsg:
		a.handleSearch(context, msg)
	case *GetAllPostsMsg:
		a.handleGetAll(context)
	case *GetPostMsg:
		a.handleGetPost(context, msg)
	case *GetPopularPostsMsg:
		a.handleGetPopular(context)
	case *GetCommunityPostsMsg:
		a.handleGetCommunityPosts(context, msg)
	case *CreatePostMsg:
		a.handleCreatePost(context, msg)
	case *UpdatePostMsg:
		a.handleUpdatePost(context, msg)
	case *DeletePostMsg:
		a.handleDeletePost(context, msg)
	case *VotePostMsg:
		a.handleVote(context, msg)
	case *PollVoteMsg:
		a.handlePollVote(context, msg)
	case *AddCommentMsg:
		a.handleAddComment(context, msg)
	case *ToggleSavePostMsg:
		a.handleToggleSave(context, msg)
	case *IsPostSavedMsg:
		a.handleIsSaved(context, msg)
	case *GetSavedPostsMsg:
		a.handleGetSaved(context, msg)
	case *CountPostsMsg:
		a.handleCount(context)

	default:
		a.log.Warn("unknown message", "type", fmt.Sprintf("%T", msg))
	}
}

// guard fails fast when the record store collaborator is unavailable.
func (a *PostActor) guard(context actor.Context) bool {
	if a.store == nil {
		context.Respond(utils.NewAppError(utils.ErrNotInitialized, "record store not initialized", nil))
		return false
	}
	return true
}

// fetchAll pulls the complete post collection in fetch order.
func (a *PostActor) fetchAll(ctx stdctx.Context, query records.Query) ([]*models.Post, error) {
	query.Fields = models.PostFields
	recs, err := a.store.FetchRecords(ctx, records.TablePosts, query)
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(recs))
	for _, rec := range recs {
		posts = append(posts, models.PostFromRecord(rec))
	}
	return posts, nil
}

func (a *PostActor) getPost(ctx stdctx.Context, postID int) (*models.Post, error) {
	rec, err := a.store.GetRecordByID(ctx, records.TablePosts, postID, records.Query{Fields: models.PostFields})
	if err != nil {
		return nil, err
	}
	return models.PostFromRecord(rec), nil
}

func (a *PostActor) handleSearch(context actor.Context, msg *SearchPostsMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	// Empty queries match nothing; skip the fetch entirely.
	if strings.TrimSpace(msg.Query) == "" {
		context.Respond([]search.PostResult{})
		return
	}

	posts, err := a.fetchAll(stdctx.Background(), records.Query{})
	if err != nil {
		// Reads degrade to an empty result set.
		a.log.Error("post search fetch failed", "error", err)
		context.Respond([]search.PostResult{})
		return
	}

	a.metrics.AddOperationLatency("search_posts", time.Since(startTime))
	context.Respond(search.Posts(msg.Query, posts))
}

func (a *PostActor) handleGetAll(context actor.Context) {
	if !a.guard(context) {
		return
	}
	posts, err := a.fetchAll(stdctx.Background(), records.Query{
		OrderBy: []records.OrderBy{{Field: models.PostFieldTimestamp, Desc: true}},
	})
	if err != nil {
		a.log.Error("fetching posts failed", "error", err)
		context.Respond([]*models.Post{})
		return
	}
	context.Respond(posts)
}

func (a *PostActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	if !a.guard(context) {
		return
	}
	post, err := a.getPost(stdctx.Background(), msg.PostID)
	if err != nil {
		context.Respond(asAppError(err, "post"))
		return
	}
	context.Respond(post)
}

func (a *PostActor) handleGetPopular(context actor.Context) {
	if !a.guard(context) {
		return
	}
	posts, err := a.fetchAll(stdctx.Background(), records.Query{
		Where: []records.Where{{
			FieldName: models.PostFieldScore,
			Operator:  records.OpGreaterThanOrEqualTo,
			Values:    []any{popularScoreThreshold},
		}},
		OrderBy: []records.OrderBy{{Field: models.PostFieldScore, Desc: true}},
	})
	if err != nil {
		a.log.Error("fetching popular posts failed", "error", err)
		context.Respond([]*models.Post{})
		return
	}
	context.Respond(posts)
}

func (a *PostActor) handleGetCommunityPosts(context actor.Context, msg *GetCommunityPostsMsg) {
	if !a.guard(context) {
		return
	}
	posts, err := a.fetchAll(stdctx.Background(), records.Query{
		Where: []records.Where{{
			FieldName: models.PostFieldCommunity,
			Operator:  records.OpEqualTo,
			Values:    []any{msg.Community},
		}},
		OrderBy: []records.OrderBy{{Field: models.PostFieldTimestamp, Desc: true}},
	})
	if err != nil {
		a.log.Error("fetching community posts failed", "community", msg.Community, "error", err)
		context.Respond([]*models.Post{})
		return
	}
	context.Respond(posts)
}

func (a *PostActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	if msg.Title == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title is required", nil))
		return
	}

	postType := msg.PostType
	if postType == "" {
		postType = models.PostTypeText
	}

	// The author's own submission starts at score 1 with their upvote cast.
	fields := records.Record{
		models.PostFieldName:         msg.Title,
		models.PostFieldTitle:        msg.Title,
		models.PostFieldAuthor:       msg.Author,
		models.PostFieldCommunity:    msg.Community,
		models.PostFieldScore:        1,
		models.PostFieldUserVote:     models.VoteUp,
		models.PostFieldTimestamp:    time.Now().UTC().Format(time.RFC3339),
		models.PostFieldCommentCount: 0,
		models.PostFieldType:         postType,
		models.PostFieldUserPollVote: nil,
	}
	if msg.Content != "" {
		fields[models.PostFieldContent] = msg.Content
	}
	if len(msg.Tags) > 0 {
		fields[models.PostFieldTags] = strings.Join(msg.Tags, ",")
	}
	if msg.ImageURL != "" {
		fields[models.PostFieldImageURL] = msg.ImageURL
	}
	if msg.LinkURL != "" {
		fields[models.PostFieldLinkURL] = msg.LinkURL
	}
	if blob := models.MarshalPollOptions(msg.PollOptions); blob != nil {
		fields[models.PostFieldPollOptions] = blob
	}

	rec, err := a.store.CreateRecord(stdctx.Background(), records.TablePosts, fields)
	if err != nil {
		a.log.Error("creating post failed", "error", err)
		context.Respond(asAppError(err, "post"))
		return
	}

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(models.PostFromRecord(rec))
}

func (a *PostActor) handleUpdatePost(context actor.Context, msg *UpdatePostMsg) {
	if !a.guard(context) {
		return
	}
	rec, err := a.store.UpdateRecord(stdctx.Background(), records.TablePosts, msg.PostID, msg.Patch.Record())
	if err != nil {
		a.log.Error("updating post failed", "post_id", msg.PostID, "error", err)
		context.Respond(asAppError(err, "post"))
		return
	}
	context.Respond(models.PostFromRecord(rec))
}

func (a *PostActor) handleDeletePost(context actor.Context, msg *DeletePostMsg) {
	if !a.guard(context) {
		return
	}
	if err := a.store.DeleteRecords(stdctx.Background(), records.TablePosts, []int{msg.PostID}); err != nil {
		a.log.Error("deleting post failed", "post_id", msg.PostID, "error", err)
		context.Respond(asAppError(err, "post"))
		return
	}
	context.Respond(true)
}

func (a *PostActor) handleVote(context actor.Context, msg *VotePostMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	if !models.ValidVote(msg.Value) {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "vote value must be -1 or 1", nil))
		return
	}

	ctx := stdctx.Background()
	post, err := a.getPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(asAppError(err, "post"))
		return
	}

	post.ApplyVote(msg.Value)

	patch := models.PostPatch{Score: &post.Score, UserVote: &post.UserVote}
	if _, err := a.store.UpdateRecord(ctx, records.TablePosts, msg.PostID, patch.Record()); err != nil {
		a.log.Error("persisting vote failed", "post_id", msg.PostID, "error", err)
		context.Respond(asAppError(err, "post"))
		return
	}

	a.metrics.AddOperationLatency("vote_post", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handlePollVote(context actor.Context, msg *PollVoteMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	ctx := stdctx.Background()
	post, err := a.getPost(ctx, msg.PostID)
	if err != nil {
		context.Respond(asAppError(err, "post"))
		return
	}

	if !post.ApplyPollVote(msg.OptionID) {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "post is not a poll or option does not exist", nil))
		return
	}

	patch := models.PostPatch{
		PollOptions:       post.PollOptions,
		UserPollVote:      post.UserPollVote,
		ClearUserPollVote: post.UserPollVote == nil,
	}
	if _, err := a.store.UpdateRecord(ctx, records.TablePosts, msg.PostID, patch.Record()); err != nil {
		a.log.Error("persisting poll vote failed", "post_id", msg.PostID, "error", err)
		context.Respond(asAppError(err, "post"))
		return
	}

	a.metrics.AddOperationLatency("vote_poll", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleAddComment(context actor.Context, msg *AddCommentMsg) {
	if a.store == nil {
		return
	}
	ctx := stdctx.Background()
	post, err := a.getPost(ctx, msg.PostID)
	if err != nil {
		a.log.Error("comment count bump failed", "post_id", msg.PostID, "error", err)
		if context.Sender() != nil {
			context.Respond(asAppError(err, "post"))
		}
		return
	}

	newCount := post.CommentCount + 1
	patch := models.PostPatch{CommentCount: &newCount}
	if _, err := a.store.UpdateRecord(ctx, records.TablePosts, msg.PostID, patch.Record()); err != nil {
		a.log.Error("comment count bump failed", "post_id", msg.PostID, "error", err)
		if context.Sender() != nil {
			context.Respond(asAppError(err, "post"))
		}
		return
	}
	if context.Sender() != nil {
		context.Respond(true)
	}
}

func (a *PostActor) handleToggleSave(context actor.Context, msg *ToggleSavePostMsg) {
	saved, err := a.sessions.ToggleSavedPost(stdctx.Background(), msg.UserID, msg.PostID)
	if err != nil {
		a.log.Error("toggling saved post failed", "post_id", msg.PostID, "error", err)
		context.Respond(utils.NewAppError(utils.ErrRemoteRejected, "failed to toggle saved post", err))
		return
	}
	context.Respond(&SaveStateResponse{Saved: saved})
}

func (a *PostActor) handleIsSaved(context actor.Context, msg *IsPostSavedMsg) {
	saved, err := a.sessions.IsPostSaved(stdctx.Background(), msg.UserID, msg.PostID)
	if err != nil {
		a.log.Error("saved lookup failed", "post_id", msg.PostID, "error", err)
		context.Respond(false)
		return
	}
	context.Respond(saved)
}

func (a *PostActor) handleGetSaved(context actor.Context, msg *GetSavedPostsMsg) {
	if !a.guard(context) {
		return
	}
	ctx := stdctx.Background()

	savedIDs, err := a.sessions.SavedPosts(ctx, msg.UserID)
	if err != nil {
		a.log.Error("saved set fetch failed", "error", err)
		context.Respond([]*models.Post{})
		return
	}
	membership := make(map[int]bool, len(savedIDs))
	for _, id := range savedIDs {
		membership[id] = true
	}

	posts, err := a.fetchAll(ctx, records.Query{
		OrderBy: []records.OrderBy{{Field: models.PostFieldTimestamp, Desc: true}},
	})
	if err != nil {
		a.log.Error("fetching posts failed", "error", err)
		context.Respond([]*models.Post{})
		return
	}

	saved := []*models.Post{}
	for _, post := range posts {
		if membership[post.ID] {
			saved = append(saved, post)
		}
	}
	context.Respond(saved)
}

func (a *PostActor) handleCount(context actor.Context) {
	if !a.guard(context) {
		return
	}
	recs, err := a.store.FetchRecords(stdctx.Background(), records.TablePosts, records.Query{
		Fields: []string{models.PostFieldName},
	})
	if err != nil {
		context.Respond(0)
		return
	}
	context.Respond(len(recs))
}
