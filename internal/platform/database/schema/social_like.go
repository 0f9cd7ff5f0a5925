// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialLikeTable represents the 'social.like' table.
// (likedby, targetkind, targetid) is unique.
type SocialLikeTable struct {
	Table      string
	ID         string
	LikedBy    string
	TargetKind string
	TargetID   string
	CreatedAt  string
}

// SocialLike is the schema definition for social.like
var SocialLike = SocialLikeTable{
	Table:      "social.like",
	ID:         "id",
	LikedBy:    "likedby",
	TargetKind: "targetkind",
	TargetID:   "targetid",
	CreatedAt:  "createdat",
}

// Columns returns all standard column names
func (t SocialLikeTable) Columns() []string {
	return []string{t.ID, t.LikedBy, t.TargetKind, t.TargetID, t.CreatedAt}
}
