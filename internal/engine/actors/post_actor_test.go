package actors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterhole/internal/models"
	"waterhole/internal/search"
	"waterhole/internal/utils"
)

func TestPostActorCreateDefaults(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnPostActor()

	result, err := env.ask(pid, &CreatePostMsg{
		Title:     "Hello swamp",
		Content:   "First post",
		Author:    "alice",
		Community: "golang",
		Tags:      []string{"intro", "meta"},
	})
	require.NoError(t, err)

	post := result.(*models.Post)
	assert.Equal(t, 1, post.ID)
	assert.Equal(t, "Hello swamp", post.Title)
	assert.Equal(t, 1, post.Score)
	assert.Equal(t, models.VoteUp, post.UserVote)
	assert.Equal(t, 0, post.CommentCount)
	assert.Equal(t, models.PostTypeText, post.PostType)
	assert.Equal(t, []string{"intro", "meta"}, post.Tags)
	assert.NotEmpty(t, post.Timestamp)

	// Missing title is rejected
	result, err = env.ask(pid, &CreatePostMsg{Author: "alice"})
	require.NoError(t, err)
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestPostActorVoteFlow(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnPostActor()

	result, err := env.ask(pid, &CreatePostMsg{Title: "Vote on me", Author: "alice"})
	require.NoError(t, err)
	post := result.(*models.Post)

	// Downvote over the author's standing upvote swings by two
	result, err = env.ask(pid, &VotePostMsg{PostID: post.ID, Value: models.VoteDown})
	require.NoError(t, err)
	post = result.(*models.Post)
	assert.Equal(t, -1, post.Score)
	assert.Equal(t, models.VoteDown, post.UserVote)

	// Same vote again clears it
	result, err = env.ask(pid, &VotePostMsg{PostID: post.ID, Value: models.VoteDown})
	require.NoError(t, err)
	post = result.(*models.Post)
	assert.Equal(t, 0, post.Score)
	assert.Equal(t, models.VoteNone, post.UserVote)

	// The new state is persisted, not just echoed
	result, err = env.ask(pid, &GetPostMsg{PostID: post.ID})
	require.NoError(t, err)
	post = result.(*models.Post)
	assert.Equal(t, 0, post.Score)
	assert.Equal(t, models.VoteNone, post.UserVote)

	// Invalid magnitude
	result, err = env.ask(pid, &VotePostMsg{PostID: post.ID, Value: 2})
	require.NoError(t, err)
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Voting a missing post reports not found
	result, err = env.ask(pid, &VotePostMsg{PostID: 999, Value: models.VoteUp})
	require.NoError(t, err)
	appErr = result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestPostActorPollVote(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnPostActor()

	result, err := env.ask(pid, &CreatePostMsg{
		Title:    "Best language?",
		Author:   "alice",
		PostType: models.PostTypePoll,
		PollOptions: []models.PollOption{
			{ID: 1, Label: "Go"},
			{ID: 2, Label: "Rust"},
		},
	})
	require.NoError(t, err)
	post := result.(*models.Post)
	require.Len(t, post.PollOptions, 2)

	result, err = env.ask(pid, &PollVoteMsg{PostID: post.ID, OptionID: 1})
	require.NoError(t, err)
	post = result.(*models.Post)
	assert.Equal(t, 1, post.PollOptions[0].VoteCount)
	require.NotNil(t, post.UserPollVote)
	assert.Equal(t, 1, *post.UserPollVote)

	// Switch choice
	result, err = env.ask(pid, &PollVoteMsg{PostID: post.ID, OptionID: 2})
	require.NoError(t, err)
	post = result.(*models.Post)
	assert.Equal(t, 0, post.PollOptions[0].VoteCount)
	assert.Equal(t, 1, post.PollOptions[1].VoteCount)

	// Same choice again clears the vote, and the cleared state persists
	result, err = env.ask(pid, &PollVoteMsg{PostID: post.ID, OptionID: 2})
	require.NoError(t, err)
	post = result.(*models.Post)
	assert.Nil(t, post.UserPollVote)

	result, err = env.ask(pid, &GetPostMsg{PostID: post.ID})
	require.NoError(t, err)
	post = result.(*models.Post)
	assert.Nil(t, post.UserPollVote)
	assert.Equal(t, 0, post.PollOptions[1].VoteCount)

	// Unknown option
	result, err = env.ask(pid, &PollVoteMsg{PostID: post.ID, OptionID: 42})
	require.NoError(t, err)
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestPostActorQueries(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnPostActor()

	for _, p := range []*CreatePostMsg{
		{Title: "Go tips", Author: "alice", Community: "golang"},
		{Title: "Rust tips", Author: "bob", Community: "rust"},
		{Title: "More Go", Author: "alice", Community: "golang"},
	} {
		_, err := env.ask(pid, p)
		require.NoError(t, err)
	}

	// Push one post over the popularity bar
	score := 80
	_, err := env.ask(pid, &UpdatePostMsg{PostID: 2, Patch: models.PostPatch{Score: &score}})
	require.NoError(t, err)

	result, err := env.ask(pid, &GetAllPostsMsg{})
	require.NoError(t, err)
	assert.Len(t, result.([]*models.Post), 3)

	result, err = env.ask(pid, &GetCommunityPostsMsg{Community: "golang"})
	require.NoError(t, err)
	assert.Len(t, result.([]*models.Post), 2)

	result, err = env.ask(pid, &GetPopularPostsMsg{})
	require.NoError(t, err)
	popular := result.([]*models.Post)
	require.Len(t, popular, 1)
	assert.Equal(t, "Rust tips", popular[0].Title)

	result, err = env.ask(pid, &CountPostsMsg{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.(int))
}

func TestPostActorSearch(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnPostActor()

	_, err := env.ask(pid, &CreatePostMsg{Title: "Cats are great", Author: "alice"})
	require.NoError(t, err)
	_, err = env.ask(pid, &CreatePostMsg{Title: "Dogs", Author: "bob"})
	require.NoError(t, err)

	result, err := env.ask(pid, &SearchPostsMsg{Query: "cats"})
	require.NoError(t, err)
	results := result.([]search.PostResult)
	require.Len(t, results, 1)
	assert.Equal(t, "Cats are great", results[0].Snippet)

	result, err = env.ask(pid, &SearchPostsMsg{Query: "  "})
	require.NoError(t, err)
	assert.Empty(t, result.([]search.PostResult))
}

func TestPostActorSavedPosts(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnPostActor()

	_, err := env.ask(pid, &CreatePostMsg{Title: "Keep me", Author: "alice"})
	require.NoError(t, err)
	_, err = env.ask(pid, &CreatePostMsg{Title: "Skip me", Author: "alice"})
	require.NoError(t, err)

	result, err := env.ask(pid, &ToggleSavePostMsg{UserID: 7, PostID: 1})
	require.NoError(t, err)
	assert.True(t, result.(*SaveStateResponse).Saved)

	result, err = env.ask(pid, &IsPostSavedMsg{UserID: 7, PostID: 1})
	require.NoError(t, err)
	assert.True(t, result.(bool))

	result, err = env.ask(pid, &GetSavedPostsMsg{UserID: 7})
	require.NoError(t, err)
	saved := result.([]*models.Post)
	require.Len(t, saved, 1)
	assert.Equal(t, "Keep me", saved[0].Title)

	// Another user's set is independent
	result, err = env.ask(pid, &GetSavedPostsMsg{UserID: 8})
	require.NoError(t, err)
	assert.Empty(t, result.([]*models.Post))

	// Toggling off empties the set
	result, err = env.ask(pid, &ToggleSavePostMsg{UserID: 7, PostID: 1})
	require.NoError(t, err)
	assert.False(t, result.(*SaveStateResponse).Saved)

	result, err = env.ask(pid, &GetSavedPostsMsg{UserID: 7})
	require.NoError(t, err)
	assert.Empty(t, result.([]*models.Post))
}

func TestPostActorDelete(t *testing.T) {
	env := newTestEnv()
	pid := env.spawnPostActor()

	_, err := env.ask(pid, &CreatePostMsg{Title: "Doomed", Author: "alice"})
	require.NoError(t, err)

	result, err := env.ask(pid, &DeletePostMsg{PostID: 1})
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = env.ask(pid, &GetPostMsg{PostID: 1})
	require.NoError(t, err)
	appErr := result.(*utils.AppError)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}
