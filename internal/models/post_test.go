package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waterhole/internal/records"
)

func TestApplyVoteToggle(t *testing.T) {
	post := &Post{Score: 10, UserVote: VoteNone}

	// Fresh upvote
	post.ApplyVote(VoteUp)
	assert.Equal(t, 11, post.Score)
	assert.Equal(t, VoteUp, post.UserVote)

	// Same vote again clears it
	post.ApplyVote(VoteUp)
	assert.Equal(t, 10, post.Score)
	assert.Equal(t, VoteNone, post.UserVote)

	// Downvote from neutral
	post.ApplyVote(VoteDown)
	assert.Equal(t, 9, post.Score)
	assert.Equal(t, VoteDown, post.UserVote)

	// Switching directions swings the score by two
	post.ApplyVote(VoteUp)
	assert.Equal(t, 11, post.Score)
	assert.Equal(t, VoteUp, post.UserVote)
}

func TestApplyPollVote(t *testing.T) {
	newPoll := func() *Post {
		return &Post{
			PostType: PostTypePoll,
			PollOptions: []PollOption{
				{ID: 1, Label: "Go", VoteCount: 3},
				{ID: 2, Label: "Rust", VoteCount: 5},
			},
		}
	}

	t.Run("vote and clear", func(t *testing.T) {
		post := newPoll()
		assert.True(t, post.ApplyPollVote(1))
		assert.Equal(t, 4, post.PollOptions[0].VoteCount)
		assert.NotNil(t, post.UserPollVote)
		assert.Equal(t, 1, *post.UserPollVote)

		// Voting the same option again withdraws it
		assert.True(t, post.ApplyPollVote(1))
		assert.Equal(t, 3, post.PollOptions[0].VoteCount)
		assert.Nil(t, post.UserPollVote)
	})

	t.Run("switch options", func(t *testing.T) {
		post := newPoll()
		assert.True(t, post.ApplyPollVote(1))
		assert.True(t, post.ApplyPollVote(2))
		assert.Equal(t, 3, post.PollOptions[0].VoteCount)
		assert.Equal(t, 6, post.PollOptions[1].VoteCount)
		assert.Equal(t, 2, *post.UserPollVote)
	})

	t.Run("counts never go negative", func(t *testing.T) {
		post := newPoll()
		vote := 1
		post.UserPollVote = &vote
		post.PollOptions[0].VoteCount = 0
		assert.True(t, post.ApplyPollVote(1))
		assert.Equal(t, 0, post.PollOptions[0].VoteCount)
		assert.Nil(t, post.UserPollVote)
	})

	t.Run("unknown option", func(t *testing.T) {
		post := newPoll()
		assert.False(t, post.ApplyPollVote(99))
		assert.Equal(t, 3, post.PollOptions[0].VoteCount)
		assert.Nil(t, post.UserPollVote)
	})

	t.Run("not a poll", func(t *testing.T) {
		post := &Post{PostType: PostTypeText}
		assert.False(t, post.ApplyPollVote(1))
	})
}

func TestPostFromRecordDefaults(t *testing.T) {
	post := PostFromRecord(records.Record{
		"Id":       7,
		"title_c":  "Hello",
		"author_c": "alice",
	})

	assert.Equal(t, 7, post.ID)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, PostTypeText, post.PostType)
	assert.NotEmpty(t, post.Timestamp)
	assert.Equal(t, []string{}, post.Tags)
	assert.Nil(t, post.PollOptions)
	assert.Nil(t, post.UserPollVote)
	assert.Equal(t, 0, post.Score)
}

func TestPostFromRecordTags(t *testing.T) {
	post := PostFromRecord(records.Record{
		"tags_c": "golang, actors ,  ,backend",
	})
	assert.Equal(t, []string{"golang", "actors", "backend"}, post.Tags)

	post = PostFromRecord(records.Record{
		"tags_c": []any{"one", "two"},
	})
	assert.Equal(t, []string{"one", "two"}, post.Tags)
}

func TestPostFromRecordPollOptions(t *testing.T) {
	post := PostFromRecord(records.Record{
		"post_type_c":      PostTypePoll,
		"poll_options_c":   `[{"Id":1,"label":"Go","voteCount":2}]`,
		"user_poll_vote_c": 1,
	})
	assert.Len(t, post.PollOptions, 1)
	assert.Equal(t, "Go", post.PollOptions[0].Label)
	assert.Equal(t, 2, post.PollOptions[0].VoteCount)
	assert.Equal(t, 1, *post.UserPollVote)

	// A corrupt blob degrades to no poll rather than an error
	post = PostFromRecord(records.Record{
		"poll_options_c": "{not json",
	})
	assert.Nil(t, post.PollOptions)
}

func TestCommentApplyVoteToggle(t *testing.T) {
	comment := &Comment{Score: 2, UserVote: VoteDown}

	// Re-casting the standing downvote clears it
	comment.ApplyVote(VoteDown)
	assert.Equal(t, 3, comment.Score)
	assert.Equal(t, VoteNone, comment.UserVote)

	comment.ApplyVote(VoteUp)
	assert.Equal(t, 4, comment.Score)
	assert.Equal(t, VoteUp, comment.UserVote)

	// Flip to downvote
	comment.ApplyVote(VoteDown)
	assert.Equal(t, 2, comment.Score)
	assert.Equal(t, VoteDown, comment.UserVote)
}

func TestCommunityFromRecordDefaults(t *testing.T) {
	community := CommunityFromRecord(records.Record{
		"Id":     3,
		"name_c": "gophers",
	})
	assert.Equal(t, "gophers", community.Name)
	assert.Equal(t, DefaultCommunityIcon, community.Icon)
	assert.Equal(t, DefaultCommunityColor, community.Color)
	assert.Equal(t, 0, community.MemberCount)
}
