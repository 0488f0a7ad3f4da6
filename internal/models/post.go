package models

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"waterhole/internal/records"
)

// Columns of the post_c table.
const (
	PostFieldName         = "Name"
	PostFieldTitle        = "title_c"
	PostFieldContent      = "content_c"
	PostFieldAuthor       = "author_c"
	PostFieldCommunity    = "community_c"
	PostFieldScore        = "score_c"
	PostFieldUserVote     = "user_vote_c"
	PostFieldTimestamp    = "timestamp_c"
	PostFieldCommentCount = "comment_count_c"
	PostFieldTags         = "tags_c"
	PostFieldType         = "post_type_c"
	PostFieldImageURL     = "image_url_c"
	PostFieldLinkURL      = "link_url_c"
	PostFieldPollOptions  = "poll_options_c"
	PostFieldUserPollVote = "user_poll_vote_c"
)

// PostFields is the full column list fetched for posts.
var PostFields = []string{
	PostFieldName, PostFieldTitle, PostFieldContent, PostFieldAuthor,
	PostFieldCommunity, PostFieldScore, PostFieldUserVote, PostFieldTimestamp,
	PostFieldCommentCount, PostFieldTags, PostFieldType, PostFieldImageURL,
	PostFieldLinkURL, PostFieldPollOptions, PostFieldUserPollVote,
}

// Post kinds.
const (
	PostTypeText  = "text"
	PostTypeLink  = "link"
	PostTypeImage = "image"
	PostTypePoll  = "poll"
)

// PollOption is one choice of a poll post.
type PollOption struct {
	ID        int    `json:"Id"`
	Label     string `json:"label"`
	VoteCount int    `json:"voteCount"`
}

type Post struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content,omitempty"`
	Author       string       `json:"author"`
	Community    string       `json:"community"`
	Score        int          `json:"score"`
	UserVote     int          `json:"userVote"`
	Timestamp    string       `json:"timestamp"`
	CommentCount int          `json:"commentCount"`
	Tags         []string     `json:"tags"`
	PostType     string       `json:"postType"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	LinkURL      string       `json:"linkUrl,omitempty"`
	PollOptions  []PollOption `json:"pollOptions,omitempty"`
	UserPollVote *int         `json:"userPollVote"`
}

// PostFromRecord maps a raw store record to a Post, applying a defensive
// default for every optional field.
func PostFromRecord(rec records.Record) *Post {
	timestamp := rec.String(PostFieldTimestamp)
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	postType := rec.String(PostFieldType)
	if postType == "" {
		postType = PostTypeText
	}

	return &Post{
		ID:           rec.ID(),
		Title:        rec.String(PostFieldTitle),
		Content:      rec.String(PostFieldContent),
		Author:       rec.String(PostFieldAuthor),
		Community:    rec.String(PostFieldCommunity),
		Score:        rec.Int(PostFieldScore),
		UserVote:     rec.Int(PostFieldUserVote),
		Timestamp:    timestamp,
		CommentCount: rec.Int(PostFieldCommentCount),
		Tags:         parseTags(rec[PostFieldTags]),
		PostType:     postType,
		ImageURL:     rec.String(PostFieldImageURL),
		LinkURL:      rec.String(PostFieldLinkURL),
		PollOptions:  parsePollOptions(rec[PostFieldPollOptions]),
		UserPollVote: rec.IntPtr(PostFieldUserPollVote),
	}
}

// parseTags accepts either the comma-joined string written on create or a
// ready-made list handed back by the store.
func parseTags(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return []string{}
		}
		parts := strings.Split(t, ",")
		tags := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				tags = append(tags, p)
			}
		}
		return tags
	case []any:
		tags := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	case []string:
		return t
	}
	return []string{}
}

// parsePollOptions decodes the serialized poll-options blob. A malformed
// blob is logged and treated as an absent poll rather than an error.
func parsePollOptions(v any) []PollOption {
	raw, ok := v.(string)
	if !ok || raw == "" {
		return nil
	}
	var options []PollOption
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		slog.Warn("dropping malformed poll options blob", "error", err)
		return nil
	}
	return options
}

// MarshalPollOptions serializes poll options for storage. Nil stays nil so
// non-poll posts keep a null column.
func MarshalPollOptions(options []PollOption) any {
	if options == nil {
		return nil
	}
	raw, err := json.Marshal(options)
	if err != nil {
		slog.Warn("failed to serialize poll options", "error", err)
		return nil
	}
	return string(raw)
}

// ApplyVote applies toggle semantics: casting the current vote again resets
// to neutral, anything else applies the delta newVote-oldVote to the score.
func (p *Post) ApplyVote(value int) {
	oldVote := p.UserVote
	newVote := value
	if oldVote == value {
		newVote = VoteNone
	}
	p.Score += newVote - oldVote
	p.UserVote = newVote
}

// ApplyPollVote records a single-choice poll vote. Re-voting the selected
// option clears the vote; switching options moves one count over. Counts
// never go below zero. Returns false when the post is not a votable poll or
// the option does not exist.
func (p *Post) ApplyPollVote(optionID int) bool {
	if p.PostType != PostTypePoll || len(p.PollOptions) == 0 {
		return false
	}

	selected := -1
	for i := range p.PollOptions {
		if p.PollOptions[i].ID == optionID {
			selected = i
			break
		}
	}
	if selected < 0 {
		return false
	}

	// Withdraw the previous choice, if any.
	if p.UserPollVote != nil {
		for i := range p.PollOptions {
			if p.PollOptions[i].ID == *p.UserPollVote && p.PollOptions[i].VoteCount > 0 {
				p.PollOptions[i].VoteCount--
			}
		}
	}

	if p.UserPollVote != nil && *p.UserPollVote == optionID {
		p.UserPollVote = nil
		return true
	}

	p.PollOptions[selected].VoteCount++
	chosen := optionID
	p.UserPollVote = &chosen
	return true
}

// PostPatch is an explicit optional-field update: nil pointers mean "leave
// unchanged". ClearUserPollVote distinguishes clearing the poll vote from
// not touching it.
type PostPatch struct {
	Title             *string
	Content           *string
	Score             *int
	UserVote          *int
	CommentCount      *int
	Tags              []string
	PollOptions       []PollOption
	UserPollVote      *int
	ClearUserPollVote bool
}

// Record renders the patch as store fields.
func (p PostPatch) Record() records.Record {
	fields := records.Record{}
	if p.Title != nil {
		fields[PostFieldTitle] = *p.Title
		fields[PostFieldName] = *p.Title
	}
	if p.Content != nil {
		fields[PostFieldContent] = *p.Content
	}
	if p.Score != nil {
		fields[PostFieldScore] = *p.Score
	}
	if p.UserVote != nil {
		fields[PostFieldUserVote] = *p.UserVote
	}
	if p.CommentCount != nil {
		fields[PostFieldCommentCount] = *p.CommentCount
	}
	if p.Tags != nil {
		fields[PostFieldTags] = strings.Join(p.Tags, ",")
	}
	if p.PollOptions != nil {
		fields[PostFieldPollOptions] = MarshalPollOptions(p.PollOptions)
	}
	if p.UserPollVote != nil {
		fields[PostFieldUserPollVote] = *p.UserPollVote
	} else if p.ClearUserPollVote {
		fields[PostFieldUserPollVote] = nil
	}
	return fields
}
