// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MediaVideoTable represents the 'media.video' table
type MediaVideoTable struct {
	Table        string
	ID           string
	AuthorID     string
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     string
	Views        string
	IsPublished  string
	CreatedAt    string
	UpdatedAt    string
}

// MediaVideo is the schema definition for media.video
var MediaVideo = MediaVideoTable{
	Table:        "media.video",
	ID:           "id",
	AuthorID:     "authorid",
	Title:        "title",
	Description:  "description",
	VideoURL:     "videourl",
	ThumbnailURL: "thumbnailurl",
	Duration:     "duration",
	Views:        "views",
	IsPublished:  "ispublished",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t MediaVideoTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.Title, t.Description, t.VideoURL, t.ThumbnailURL,
		t.Duration, t.Views, t.IsPublished, t.CreatedAt, t.UpdatedAt,
	}
}
