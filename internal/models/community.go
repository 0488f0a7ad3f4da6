package models

import (
	"waterhole/internal/records"
)

// Columns of the community_c table.
const (
	CommunityFieldName        = "Name"
	CommunityFieldNameC       = "name_c"
	CommunityFieldDescription = "description_c"
	CommunityFieldIcon        = "icon_c"
	CommunityFieldMemberCount = "member_count_c"
	CommunityFieldColor       = "color_c"
)

// CommunityFields is the full column list fetched for communities.
var CommunityFields = []string{
	CommunityFieldName, CommunityFieldNameC, CommunityFieldDescription,
	CommunityFieldIcon, CommunityFieldMemberCount, CommunityFieldColor,
}

// Presentation defaults applied when a record lacks the field.
const (
	DefaultCommunityIcon  = "Users"
	DefaultCommunityColor = "#FF4500"
)

type Community struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	MemberCount int    `json:"memberCount"`
	Color       string `json:"color"`
}

// CommunityFromRecord maps a raw store record to a Community.
func CommunityFromRecord(rec records.Record) *Community {
	icon := rec.String(CommunityFieldIcon)
	if icon == "" {
		icon = DefaultCommunityIcon
	}
	color := rec.String(CommunityFieldColor)
	if color == "" {
		color = DefaultCommunityColor
	}
	return &Community{
		ID:          rec.ID(),
		Name:        rec.String(CommunityFieldNameC),
		Description: rec.String(CommunityFieldDescription),
		Icon:        icon,
		MemberCount: rec.Int(CommunityFieldMemberCount),
		Color:       color,
	}
}

// CommunityPatch is an explicit optional-field update for communities.
type CommunityPatch struct {
	Name        *string
	Description *string
	Icon        *string
	MemberCount *int
	Color       *string
}

// Record renders the patch as store fields.
func (p CommunityPatch) Record() records.Record {
	fields := records.Record{}
	if p.Name != nil {
		fields[CommunityFieldNameC] = *p.Name
		fields[CommunityFieldName] = *p.Name
	}
	if p.Description != nil {
		fields[CommunityFieldDescription] = *p.Description
	}
	if p.Icon != nil {
		fields[CommunityFieldIcon] = *p.Icon
	}
	if p.MemberCount != nil {
		fields[CommunityFieldMemberCount] = *p.MemberCount
	}
	if p.Color != nil {
		fields[CommunityFieldColor] = *p.Color
	}
	return fields
}
