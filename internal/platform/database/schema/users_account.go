// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables and columns of the PostgreSQL database.

Query builders reference these values instead of string literals so a
renamed column fails at compile time.
*/
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Username   string
	FullName   string
	Avatar     string
	CoverImage string
	CreatedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Username:   "username",
	FullName:   "fullname",
	Avatar:     "avatar",
	CoverImage: "coverimage",
	CreatedAt:  "createdat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.FullName, t.Avatar, t.CoverImage, t.CreatedAt}
}
