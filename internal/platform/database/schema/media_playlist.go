// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MediaPlaylistTable represents the 'media.playlist' table
type MediaPlaylistTable struct {
	Table       string
	ID          string
	OwnerID     string
	Name        string
	Description string
	VideoIDs    string
	CreatedAt   string
	UpdatedAt   string
}

// MediaPlaylist is the schema definition for media.playlist
var MediaPlaylist = MediaPlaylistTable{
	Table:       "media.playlist",
	ID:          "id",
	OwnerID:     "ownerid",
	Name:        "name",
	Description: "description",
	VideoIDs:    "videoids",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t MediaPlaylistTable) Columns() []string {
	return []string{t.ID, t.OwnerID, t.Name, t.Description, t.VideoIDs, t.CreatedAt, t.UpdatedAt}
}
