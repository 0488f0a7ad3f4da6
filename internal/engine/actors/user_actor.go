package actors

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"golang.org/x/crypto/bcrypt"

	"waterhole/internal/api"
	"waterhole/internal/middleware"
	"waterhole/internal/models"
	"waterhole/internal/records"
	"waterhole/internal/utils"
)

// Message types for User operations
type (
	GetAllUsersMsg struct{}

	GetUserMsg struct {
		UserID int
	}

	GetUserByUsernameMsg struct {
		Username string
	}

	GetUserPostsMsg struct {
		Username string
	}

	GetUserCommentsMsg struct {
		Username string
	}

	GetUserActivityMsg struct {
		Username string
	}

	GetKarmaMsg struct {
		Username string
	}

	RegisterUserMsg struct {
		Username    string
		DisplayName string
		Password    string
		Avatar      string
		Bio         string
	}

	LoginMsg struct {
		Username string
		Password string
	}

	UpdateUserMsg struct {
		UserID int
		Patch  models.UserPatch
	}

	DeleteUserMsg struct {
		UserID int
	}
)

// UserActivity joins a user's posts and comments, fetched concurrently.
type UserActivity struct {
	Posts         []*models.Post    `json:"posts"`
	Comments      []*models.Comment `json:"comments"`
	TotalActivity int               `json:"totalActivity"`
}

// UserActor handles profiles, registration, login and the karma aggregation
// over posts and comments.
type UserActor struct {
	store   records.Client
	metrics *utils.MetricsCollector
	log     *slog.Logger
}

func NewUserActor(store records.Client, metrics *utils.MetricsCollector, log *slog.Logger) actor.Actor {
	return &UserActor{
		store:   store,
		metrics: metrics,
		log:     log.With("actor", "user"),
	}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		a.log.Info("user actor started")
	case *actor.Stopping:
		a.log.Info("user actor stopping")

	case *GetAllUsersMsg:
		a.handleGetAll(context)
	case *GetUserMsg:
		a.handleGet(context, msg)
	case *GetUserByUsernameMsg:
		a.handleGetByUsername(context, msg)
	case *GetUserPostsMsg:
		a.handleGetPosts(context, msg)
	case *GetUserCommentsMsg:
		a.handleGetComments(context, msg)
	case *GetUserActivityMsg:
		a.handleGetActivity(context, msg)
	case *GetKarmaMsg:
		context.Respond(a.calculateKarma(stdctx.Background(), msg.Username))
	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *UpdateUserMsg:
		a.handleUpdate(context, msg)
	case *DeleteUserMsg:
		a.handleDelete(context, msg)

	default:
		a.log.Warn("unknown message", "type", fmt.Sprintf("%T", msg))
	}
}

func (a *UserActor) guard(context actor.Context) bool {
	if a.store == nil {
		context.Respond(utils.NewAppError(utils.ErrNotInitialized, "record store not initialized", nil))
		return false
	}
	return true
}

func byAuthor(username string) []records.Where {
	return []records.Where{{
		FieldName: "author_c",
		Operator:  records.OpEqualTo,
		Values:    []any{username},
	}}
}

// sumScores totals the score column across all rows a user authored.
func (a *UserActor) sumScores(ctx stdctx.Context, table string) func(username string) (int, error) {
	return func(username string) (int, error) {
		recs, err := a.store.FetchRecords(ctx, table, records.Query{
			Fields: []string{"score_c"},
			Where:  byAuthor(username),
		})
		if err != nil {
			return 0, err
		}
		total := 0
		for _, rec := range recs {
			total += rec.Int("score_c")
		}
		return total, nil
	}
}

// calculateKarma sums the user's post and comment scores, fetching both
// collections concurrently. Any fetch failure is absorbed: karma reads as 0
// rather than failing the caller.
func (a *UserActor) calculateKarma(ctx stdctx.Context, username string) int {
	startTime := time.Now()

	var (
		wg                   sync.WaitGroup
		postKarma, cmtKarma  int
		postErr, commentsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		postKarma, postErr = a.sumScores(ctx, records.TablePosts)(username)
	}()
	go func() {
		defer wg.Done()
		cmtKarma, commentsErr = a.sumScores(ctx, records.TableComments)(username)
	}()
	wg.Wait()

	if postErr != nil || commentsErr != nil {
		a.log.Error("karma aggregation failed", "username", username,
			"post_error", postErr, "comment_error", commentsErr)
		return 0
	}

	a.metrics.AddOperationLatency("calculate_karma", time.Since(startTime))
	return postKarma + cmtKarma
}

func (a *UserActor) handleGetAll(context actor.Context) {
	if !a.guard(context) {
		return
	}
	ctx := stdctx.Background()

	recs, err := a.store.FetchRecords(ctx, records.TableUsers, records.Query{Fields: models.UserFields})
	if err != nil {
		a.log.Error("fetching users failed", "error", err)
		context.Respond([]*models.User{})
		return
	}

	users := make([]*models.User, len(recs))
	var wg sync.WaitGroup
	for i, rec := range recs {
		users[i] = models.UserFromRecord(rec)
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			u.Karma = a.calculateKarma(ctx, u.Username)
		}(users[i])
	}
	wg.Wait()

	context.Respond(users)
}

func (a *UserActor) handleGet(context actor.Context, msg *GetUserMsg) {
	if !a.guard(context) {
		return
	}
	ctx := stdctx.Background()

	rec, err := a.store.GetRecordByID(ctx, records.TableUsers, msg.UserID, records.Query{Fields: models.UserFields})
	if err != nil {
		context.Respond(asAppError(err, "user"))
		return
	}
	user := models.UserFromRecord(rec)
	user.Karma = a.calculateKarma(ctx, user.Username)
	context.Respond(user)
}

// lookupByUsername fetches at most one user record. withSecret controls
// whether the password hash column is included (login path only).
func (a *UserActor) lookupByUsername(ctx stdctx.Context, username string, withSecret bool) (*models.User, error) {
	fields := models.UserFields
	if withSecret {
		fields = append(append([]string{}, models.UserFields...), models.UserFieldPasswordHash)
	}
	recs, err := a.store.FetchRecords(ctx, records.TableUsers, records.Query{
		Fields: fields,
		Where: []records.Where{{
			FieldName: models.UserFieldUsername,
			Operator:  records.OpEqualTo,
			Values:    []any{username},
		}},
		Paging: &records.Paging{Limit: 1, Offset: 0},
	})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, utils.NewNotFoundError("user")
	}
	return models.UserFromRecord(recs[0]), nil
}

func (a *UserActor) handleGetByUsername(context actor.Context, msg *GetUserByUsernameMsg) {
	if !a.guard(context) {
		return
	}
	ctx := stdctx.Background()

	user, err := a.lookupByUsername(ctx, msg.Username, false)
	if err != nil {
		context.Respond(asAppError(err, "user"))
		return
	}
	user.Karma = a.calculateKarma(ctx, user.Username)
	context.Respond(user)
}

func (a *UserActor) fetchAuthoredPosts(ctx stdctx.Context, username string) ([]*models.Post, error) {
	recs, err := a.store.FetchRecords(ctx, records.TablePosts, records.Query{
		Fields: models.PostFields,
		Where:  byAuthor(username),
	})
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(recs))
	for _, rec := range recs {
		posts = append(posts, models.PostFromRecord(rec))
	}
	return posts, nil
}

func (a *UserActor) fetchAuthoredComments(ctx stdctx.Context, username string) ([]*models.Comment, error) {
	recs, err := a.store.FetchRecords(ctx, records.TableComments, records.Query{
		Fields: models.CommentFields,
		Where:  byAuthor(username),
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

func (a *UserActor) handleGetPosts(context actor.Context, msg *GetUserPostsMsg) {
	if !a.guard(context) {
		return
	}
	posts, err := a.fetchAuthoredPosts(stdctx.Background(), msg.Username)
	if err != nil {
		a.log.Error("fetching user posts failed", "username", msg.Username, "error", err)
		context.Respond([]*models.Post{})
		return
	}
	context.Respond(posts)
}

func (a *UserActor) handleGetComments(context actor.Context, msg *GetUserCommentsMsg) {
	if !a.guard(context) {
		return
	}
	comments, err := a.fetchAuthoredComments(stdctx.Background(), msg.Username)
	if err != nil {
		a.log.Error("fetching user comments failed", "username", msg.Username, "error", err)
		context.Respond([]*models.Comment{})
		return
	}
	context.Respond(comments)
}

// handleGetActivity fetches the user's posts and comments at once and joins
// them when both resolve.
func (a *UserActor) handleGetActivity(context actor.Context, msg *GetUserActivityMsg) {
	if !a.guard(context) {
		return
	}
	ctx := stdctx.Background()

	var (
		wg       sync.WaitGroup
		posts    []*models.Post
		comments []*models.Comment
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if posts, err = a.fetchAuthoredPosts(ctx, msg.Username); err != nil {
			a.log.Error("activity post fetch failed", "username", msg.Username, "error", err)
			posts = []*models.Post{}
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if comments, err = a.fetchAuthoredComments(ctx, msg.Username); err != nil {
			a.log.Error("activity comment fetch failed", "username", msg.Username, "error", err)
			comments = []*models.Comment{}
		}
	}()
	wg.Wait()

	context.Respond(&UserActivity{
		Posts:         posts,
		Comments:      comments,
		TotalActivity: len(posts) + len(comments),
	})
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Username == "" || msg.Password == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "username and password are required", nil))
		return
	}

	if existing, _ := a.lookupByUsername(ctx, msg.Username, false); existing != nil {
		context.Respond(utils.NewAppError(utils.ErrDuplicate, "username already registered", nil))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "failed to hash password", err))
		return
	}

	displayName := msg.DisplayName
	if displayName == "" {
		displayName = msg.Username
	}

	fields := records.Record{
		models.UserFieldName:         displayName,
		models.UserFieldUsername:     msg.Username,
		models.UserFieldDisplayName:  displayName,
		models.UserFieldAvatar:       msg.Avatar,
		models.UserFieldBio:          msg.Bio,
		models.UserFieldJoinDate:     time.Now().UTC().Format(time.RFC3339),
		models.UserFieldKarma:        0,
		models.UserFieldPasswordHash: string(hash),
	}

	rec, err := a.store.CreateRecord(ctx, records.TableUsers, fields)
	if err != nil {
		a.log.Error("creating user failed", "username", msg.Username, "error", err)
		context.Respond(asAppError(err, "user"))
		return
	}

	user := models.UserFromRecord(rec)
	user.PasswordHash = ""

	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	if !a.guard(context) {
		return
	}
	startTime := time.Now()

	user, err := a.lookupByUsername(stdctx.Background(), msg.Username, true)
	if err != nil {
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(msg.Password)) != nil {
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		a.log.Error("token generation failed", "username", msg.Username, "error", err)
		context.Respond(&api.LoginResponse{Success: false, Error: "Failed to issue token"})
		return
	}

	a.metrics.AddOperationLatency("login_user", time.Since(startTime))
	context.Respond(&api.LoginResponse{
		Success: true,
		Token:   token,
		UserID:  strconv.Itoa(user.ID),
	})
}

func (a *UserActor) handleUpdate(context actor.Context, msg *UpdateUserMsg) {
	if !a.guard(context) {
		return
	}
	rec, err := a.store.UpdateRecord(stdctx.Background(), records.TableUsers, msg.UserID, msg.Patch.Record())
	if err != nil {
		a.log.Error("updating user failed", "user_id", msg.UserID, "error", err)
		context.Respond(asAppError(err, "user"))
		return
	}
	user := models.UserFromRecord(rec)
	user.PasswordHash = ""
	context.Respond(user)
}

func (a *UserActor) handleDelete(context actor.Context, msg *DeleteUserMsg) {
	if !a.guard(context) {
		return
	}
	if err := a.store.DeleteRecords(stdctx.Background(), records.TableUsers, []int{msg.UserID}); err != nil {
		a.log.Error("deleting user failed", "user_id", msg.UserID, "error", err)
		context.Respond(asAppError(err, "user"))
		return
	}
	context.Respond(true)
}
