package models

import (
	"waterhole/internal/records"
)

// Columns of the comment_c table.
const (
	CommentFieldName      = "Name"
	CommentFieldAuthor    = "author_c"
	CommentFieldContent   = "content_c"
	CommentFieldParentID  = "parent_id_c"
	CommentFieldPostID    = "post_id_c"
	CommentFieldScore     = "score_c"
	CommentFieldUserVote  = "user_vote_c"
	CommentFieldTimestamp = "timestamp_c"
)

// CommentFields is the full column list fetched for comments.
var CommentFields = []string{
	CommentFieldName, CommentFieldAuthor, CommentFieldContent,
	CommentFieldParentID, CommentFieldPostID, CommentFieldScore,
	CommentFieldUserVote, CommentFieldTimestamp,
}

// Comment is a node of a per-post reply tree. ParentID is nil for top-level
// comments.
type Comment struct {
	ID        int    `json:"id"`
	PostID    int    `json:"postId"`
	ParentID  *int   `json:"parentId"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Score     int    `json:"score"`
	UserVote  int    `json:"userVote"`
}

// CommentFromRecord maps a raw store record to a Comment.
func CommentFromRecord(rec records.Record) *Comment {
	return &Comment{
		ID:        rec.ID(),
		PostID:    rec.Int(CommentFieldPostID),
		ParentID:  rec.IntPtr(CommentFieldParentID),
		Author:    rec.String(CommentFieldAuthor),
		Content:   rec.String(CommentFieldContent),
		Timestamp: rec.String(CommentFieldTimestamp),
		Score:     rec.Int(CommentFieldScore),
		UserVote:  rec.Int(CommentFieldUserVote),
	}
}

// ApplyVote applies the same toggle semantics as post votes.
func (c *Comment) ApplyVote(value int) {
	oldVote := c.UserVote
	newVote := value
	if oldVote == value {
		newVote = VoteNone
	}
	c.Score += newVote - oldVote
	c.UserVote = newVote
}

// CommentPatch is an explicit optional-field update for comments.
type CommentPatch struct {
	Content  *string
	Score    *int
	UserVote *int
}

// Record renders the patch as store fields.
func (p CommentPatch) Record() records.Record {
	fields := records.Record{}
	if p.Content != nil {
		fields[CommentFieldContent] = *p.Content
	}
	if p.Score != nil {
		fields[CommentFieldScore] = *p.Score
	}
	if p.UserVote != nil {
		fields[CommentFieldUserVote] = *p.UserVote
	}
	return fields
}
