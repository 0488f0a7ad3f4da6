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
	"waterhole/internal/utils"
)

// Message types for Comment operations
type (
	GetPostCommentsMsg struct {
		PostID int
	}

	GetCommentMsg struct {
		CommentID int
	}

	CreateCommentMsg struct {
		PostID   int
		ParentID *int
		Author   string
		Content  string
	}

	EditCommentMsg struct {
		CommentID int
		Patch     models.CommentPatch
	}

	DeleteCommentMsg struct {
		CommentID int
	}

	VoteCommentMsg struct {
		CommentID int
		Value     int
	}

	GetCommentCountMsg struct {
		PostID int
	}
)

// CommentActor manages the per-post reply trees. Successful creates notify
// the post actor so the post's comment count stays in step.
type CommentActor struct {
	store     records.Client
	postActor *actor.PID
	metrics   *utils.MetricsCollector
	log       *slog.Logger
}

func NewCommentActor(store records.Client, postActor *actor.PID, metrics *utils.MetricsCollector, log *slog.Logger) actor.Actor {
	return &CommentActor{
		store:     store,
		postActor: postActor,
		metrics:   metrics,
		log:       log.With("actor", "comment"),
	}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.log.Info("comment actor started")
	case *actor.Stopping:
		a.log.Info("comment actor stopping")

	case *GetPostCommentsMsg:
		a.handleGetPostComments(context, msg)
	case *GetCommentMsg:
		a.handleGetComment(context, msg)
	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)
	case *EditCommentMsg:
		a.handleEditComment(context, msg)
	case *DeleteCommentMsg:
		a.handleDeleteComment(context, msg)
	case *VoteCommentMsg:
		a.handleVoteComment(context, msg)
	case *GetCommentCountMsg:
		a.handleGetCommentCount(context, msg)

	default:
		a.log.Warn("unknown message", "type", fmt.Sprintf("%T", msg))
	}
}

func (a *CommentActor) guard(context actor.Context) bool {
	if a.store == nil {
		context.Respond(utils.NewAppError(utils.ErrNotInitialized, "record store not initialized", nil))
		return false
	}
	return true
}

func (a *CommentActor) getComment(ctx stdctx.Context, commentID int) (*models.Comment, error) {
	rec, err := a.store.GetRecordByID(ctx, records.TableComments, commentID, records.Query{Fields: models.CommentFields})
	if err != nil {
		return nil, err
	}
	return models.CommentFromRecord(rec), nil
}

func (a *CommentActor) fetchPostComments(ctx stdctx.Context, postID int) ([]*models.Comment, error) {
	recs, err := a.store.FetchRecords(ctx, records.TableComments, records.Query{
		Fields: models.CommentFields,
		Where: []records.Where{{
			FieldName: models.CommentFieldPostID,
			Operator:  records.OpEqualTo,
			Values:    []any{postID},
		}},
	})
	if err != nil {
		return nil, err
	}
	comments := make([]*models.Comment, 0, len(recs))
	for _, rec := range recs {
		comments = append(comments, models.CommentFromRecord(rec))
	}
	return comments, nil
}

func (a *CommentActor) handleGetPostComments(context actor.Context, msg *GetPostCommentsMsg) {
	if !a.guard(context) {
		return
	}
	comments, err := a.fetchPostComments(stdctx.Background(), msg.PostID)
	if err != nil {
		a.log.Error("fetching comments failed", "post_id", msg.PostID, "error", err)
		context.Respond([]*models.Comment{})
		return
	}
	context.Respond(comments)
}

func (a *CommentActor) handleGetComment(context actor.Context, msg *GetCommentMsg) {
	if !a.guard(context) {
		return
	}
	comment, err := a.getComment(stdctx.Background(), msg.CommentID)
	if err != nil {
		context.Respond(asAppError(err, "comment"))
		return
	}
	context.Respond(comment)
}

func (a *CommentActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	if msg.Author == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "author is required", nil))
		return
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "content is required", nil))
		return
	}

	fields := records.Record{
		models.CommentFieldName:      "Comment by " + msg.Author,
		models.CommentFieldAuthor:    msg.Author,
		models.CommentFieldContent:   content,
		models.CommentFieldPostID:    msg.PostID,
		models.CommentFieldTimestamp: time.Now().UTC().Format(time.RFC3339),
		models.CommentFieldScore:     0,
		models.CommentFieldUserVote:  models.VoteNone,
	}
	if msg.ParentID != nil {
		fields[models.CommentFieldParentID] = *msg.ParentID
	} else {
		fields[models.CommentFieldParentID] = nil
	}

	rec, err := a.store.CreateRecord(stdctx.Background(), records.TableComments, fields)
	if err != nil {
		a.log.Error("creating comment failed", "post_id", msg.PostID, "error", err)
		context.Respond(asAppError(err, "comment"))
		return
	}

	// Keep the parent post's comment count in step.
	if a.postActor != nil {
		context.Send(a.postActor, &AddCommentMsg{PostID: msg.PostID})
	}

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	context.Respond(models.CommentFromRecord(rec))
}

func (a *CommentActor) handleEditComment(context actor.Context, msg *EditCommentMsg) {
	if !a.guard(context) {
		return
	}
	rec, err := a.store.UpdateRecord(stdctx.Background(), records.TableComments, msg.CommentID, msg.Patch.Record())
	if err != nil {
		a.log.Error("updating comment failed", "comment_id", msg.CommentID, "error", err)
		context.Respond(asAppError(err, "comment"))
		return
	}
	context.Respond(models.CommentFromRecord(rec))
}

// handleDeleteComment removes a comment and its whole reply subtree, not
// just direct children, so no deeper replies are orphaned.
func (a *CommentActor) handleDeleteComment(context actor.Context, msg *DeleteCommentMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()
	ctx := stdctx.Background()

	comment, err := a.getComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(asAppError(err, "comment"))
		return
	}

	siblings, err := a.fetchPostComments(ctx, comment.PostID)
	if err != nil {
		a.log.Error("cascade fetch failed", "comment_id", msg.CommentID, "error", err)
		context.Respond(asAppError(err, "comment"))
		return
	}

	children := make(map[int][]int, len(siblings))
	for _, c := range siblings {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	doomed := []int{msg.CommentID}
	for frontier := []int{msg.CommentID}; len(frontier) > 0; {
		next := []int{}
		for _, id := range frontier {
			next = append(next, children[id]...)
		}
		doomed = append(doomed, next...)
		frontier = next
	}

	if err := a.store.DeleteRecords(ctx, records.TableComments, doomed); err != nil {
		a.log.Error("deleting comment subtree failed", "comment_id", msg.CommentID, "error", err)
		context.Respond(asAppError(err, "comment"))
		return
	}

	a.metrics.AddOperationLatency("delete_comment", time.Since(startTime))
	context.Respond(true)
}

func (a *CommentActor) handleVoteComment(context actor.Context, msg *VoteCommentMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	if !models.ValidVote(msg.Value) {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "vote value must be -1 or 1", nil))
		return
	}

	ctx := stdctx.Background()
	comment, err := a.getComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(asAppError(err, "comment"))
		return
	}

	comment.ApplyVote(msg.Value)

	patch := models.CommentPatch{Score: &comment.Score, UserVote: &comment.UserVote}
	if _, err := a.store.UpdateRecord(ctx, records.TableComments, msg.CommentID, patch.Record()); err != nil {
		a.log.Error("persisting comment vote failed", "comment_id", msg.CommentID, "error", err)
		context.Respond(asAppError(err, "comment"))
		return
	}

	a.metrics.AddOperationLatency("vote_comment", time.Since(startTime))
	context.Respond(comment)
}

func (a *CommentActor) handleGetCommentCount(context actor.Context, msg *GetCommentCountMsg) {
	if !a.guard(context) {
		return
	}
	comments, err := a.fetchPostComments(stdctx.Background(), msg.PostID)
	if err != nil {
		context.Respond(0)
		return
	}
	context.Respond(len(comments))
}
