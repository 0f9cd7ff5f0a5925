// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialTweetTable represents the 'social.tweet' table
type SocialTweetTable struct {
	Table     string
	ID        string
	AuthorID  string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// SocialTweet is the schema definition for social.tweet
var SocialTweet = SocialTweetTable{
	Table:     "social.tweet",
	ID:        "id",
	AuthorID:  "authorid",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t SocialTweetTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.Content, t.CreatedAt, t.UpdatedAt}
}
