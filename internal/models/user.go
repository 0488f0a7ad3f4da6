package models

import (
	"waterhole/internal/records"
)

// Columns of the user_c table.
const (
	UserFieldName         = "Name"
	UserFieldUsername     = "username_c"
	UserFieldDisplayName  = "display_name_c"
	UserFieldAvatar       = "avatar_c"
	UserFieldBio          = "bio_c"
	UserFieldJoinDate     = "join_date_c"
	UserFieldKarma        = "karma_c"
	UserFieldPasswordHash = "password_hash_c"
)

// UserFields is the column list fetched for user profiles. The password hash
// is only fetched by the login path.
var UserFields = []string{
	UserFieldName, UserFieldUsername, UserFieldDisplayName, UserFieldAvatar,
	UserFieldBio, UserFieldJoinDate, UserFieldKarma,
}

// User is a forum member. Karma is derived from post and comment scores on
// demand; the stored karma_c column is only a seed value.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	Avatar       string `json:"avatar"`
	Bio          string `json:"bio"`
	JoinDate     string `json:"joinDate"`
	Karma        int    `json:"karma"`
	PasswordHash string `json:"-"`
}

// UserFromRecord maps a raw store record to a User.
func UserFromRecord(rec records.Record) *User {
	return &User{
		ID:           rec.ID(),
		Username:     rec.String(UserFieldUsername),
		DisplayName:  rec.String(UserFieldDisplayName),
		Avatar:       rec.String(UserFieldAvatar),
		Bio:          rec.String(UserFieldBio),
		JoinDate:     rec.String(UserFieldJoinDate),
		Karma:        rec.Int(UserFieldKarma),
		PasswordHash: rec.String(UserFieldPasswordHash),
	}
}

// UserPatch is an explicit optional-field update for users.
type UserPatch struct {
	DisplayName *string
	Avatar      *string
	Bio         *string
	Karma       *int
}

// Record renders the patch as store fields.
func (p UserPatch) Record() records.Record {
	fields := records.Record{}
	if p.DisplayName != nil {
		fields[UserFieldDisplayName] = *p.DisplayName
		fields[UserFieldName] = *p.DisplayName
	}
	if p.Avatar != nil {
		fields[UserFieldAvatar] = *p.Avatar
	}
	if p.Bio != nil {
		fields[UserFieldBio] = *p.Bio
	}
	if p.Karma != nil {
		fields[UserFieldKarma] = *p.Karma
	}
	return fields
}
