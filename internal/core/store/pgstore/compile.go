// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pgstore

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
)

// # Column Mapping

// table maps logical read-model fields of one collection onto physical columns.
type table struct {
	name    string
	columns map[string]string
}

var tables = map[readmodel.Collection]table{
	readmodel.Users: {
		name: schema.UserAccount.Table,
		columns: map[string]string{
			readmodel.FieldID:         schema.UserAccount.ID,
			readmodel.FieldUsername:   schema.UserAccount.Username,
			readmodel.FieldFullName:   schema.UserAccount.FullName,
			readmodel.FieldAvatar:     schema.UserAccount.Avatar,
			readmodel.FieldCoverImage: schema.UserAccount.CoverImage,
			readmodel.FieldCreatedAt:  schema.UserAccount.CreatedAt,
		},
	},
	readmodel.Videos: {
		name: schema.MediaVideo.Table,
		columns: map[string]string{
			readmodel.FieldID:          schema.MediaVideo.ID,
			readmodel.FieldAuthorID:    schema.MediaVideo.AuthorID,
			readmodel.FieldTitle:       schema.MediaVideo.Title,
			readmodel.FieldDescription: schema.MediaVideo.Description,
			readmodel.FieldVideoURL:    schema.MediaVideo.VideoURL,
			readmodel.FieldThumbnail:   schema.MediaVideo.ThumbnailURL,
			readmodel.FieldDuration:    schema.MediaVideo.Duration,
			readmodel.FieldViews:       schema.MediaVideo.Views,
			readmodel.FieldIsPublished: schema.MediaVideo.IsPublished,
			readmodel.FieldCreatedAt:   schema.MediaVideo.CreatedAt,
			readmodel.FieldUpdatedAt:   schema.MediaVideo.UpdatedAt,
		},
	},
	readmodel.Comments: {
		name: schema.SocialComment.Table,
		columns: map[string]string{
			readmodel.FieldID:        schema.SocialComment.ID,
			readmodel.FieldVideoID:   schema.SocialComment.VideoID,
			readmodel.FieldOwnerID:   schema.SocialComment.OwnerID,
			readmodel.FieldContent:   schema.SocialComment.Content,
			readmodel.FieldCreatedAt: schema.SocialComment.CreatedAt,
			readmodel.FieldUpdatedAt: schema.SocialComment.UpdatedAt,
		},
	},
	readmodel.Tweets: {
		name: schema.SocialTweet.Table,
		columns: map[string]string{
			readmodel.FieldID:        schema.SocialTweet.ID,
			readmodel.FieldAuthorID:  schema.SocialTweet.AuthorID,
			readmodel.FieldContent:   schema.SocialTweet.Content,
			readmodel.FieldCreatedAt: schema.SocialTweet.CreatedAt,
			readmodel.FieldUpdatedAt: schema.SocialTweet.UpdatedAt,
		},
	},
	readmodel.Likes: {
		name: schema.SocialLike.Table,
		columns: map[string]string{
			readmodel.FieldID:         schema.SocialLike.ID,
			readmodel.FieldLikedBy:    schema.SocialLike.LikedBy,
			readmodel.FieldTargetKind: schema.SocialLike.TargetKind,
			readmodel.FieldTargetID:   schema.SocialLike.TargetID,
			readmodel.FieldCreatedAt:  schema.SocialLike.CreatedAt,
		},
	},
	readmodel.Subscriptions: {
		name: schema.SocialSubscription.Table,
		columns: map[string]string{
			readmodel.FieldID:           schema.SocialSubscription.ID,
			readmodel.FieldSubscriberID: schema.SocialSubscription.SubscriberID,
			readmodel.FieldChannelID:    schema.SocialSubscription.ChannelID,
			readmodel.FieldCreatedAt:    schema.SocialSubscription.CreatedAt,
		},
	},
	readmodel.Playlists: {
		name: schema.MediaPlaylist.Table,
		columns: map[string]string{
			readmodel.FieldID:          schema.MediaPlaylist.ID,
			readmodel.FieldOwnerID:     schema.MediaPlaylist.OwnerID,
			readmodel.FieldName:        schema.MediaPlaylist.Name,
			readmodel.FieldDescription: schema.MediaPlaylist.Description,
			readmodel.FieldVideoIDs:    schema.MediaPlaylist.VideoIDs,
			readmodel.FieldCreatedAt:   schema.MediaPlaylist.CreatedAt,
			readmodel.FieldUpdatedAt:   schema.MediaPlaylist.UpdatedAt,
		},
	},
}

// # Compilation

// Query is a compiled statement with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

/*
Compile turns a validated spec into two statements: one returning a JSON
document per row of the requested page, and one counting every matching row.

Joins and derived values become correlated subqueries built with
json_build_object, so a whole page is fetched in one round trip. All values
are bound as parameters; identifiers only ever come from the column mapping.

Returns:
  - Query: The page query (one json column per row)
  - Query: The count query (one bigint)
  - error: If the spec does not validate
*/
func Compile(spec readmodel.Spec) (Query, Query, error) {
	if err := spec.Validate(); err != nil {
		return Query{}, Query{}, err
	}

	base := tables[spec.From]

	page := &compiler{}
	alias := page.alias()
	document := page.document(alias, spec.From, spec.Project, spec.Joins, spec.Derived)
	where := page.where(alias, spec.From, spec.Match, spec.Joins)

	direction := "ASC"
	if spec.Sort.Direction == readmodel.Desc {
		direction = "DESC"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "SELECT %s FROM %s %s", document, base.name, alias)
	if where != "" {
		fmt.Fprintf(&builder, " WHERE %s", where)
	}
	fmt.Fprintf(&builder, " ORDER BY %s.%s %s, %s.%s %s",
		alias, base.columns[spec.Sort.Field], direction,
		alias, base.columns[readmodel.FieldID], direction,
	)
	fmt.Fprintf(&builder, " LIMIT %s OFFSET %s", page.bind(spec.Page.Limit), page.bind(spec.Page.Offset()))

	count := &compiler{}
	countAlias := count.alias()
	countWhere := count.where(countAlias, spec.From, spec.Match, spec.Joins)

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", base.name, countAlias)
	if countWhere != "" {
		countSQL += " WHERE " + countWhere
	}

	return Query{SQL: builder.String(), Args: page.args}, Query{SQL: countSQL, Args: count.args}, nil
}

type compiler struct {
	args    []any
	aliases int
}

func (compiler *compiler) alias() string {
	compiler.aliases++
	return fmt.Sprintf("t%d", compiler.aliases)
}

func (compiler *compiler) bind(value any) string {
	compiler.args = append(compiler.args, plain(value))
	return fmt.Sprintf("$%d", len(compiler.args))
}

// plain unwraps named string types such as target kinds into string.
func plain(value any) any {
	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.String && reflected.Type() != reflect.TypeOf("") {
		return reflected.String()
	}
	return value
}

func (compiler *compiler) document(alias string, collection readmodel.Collection, project []string, joins []readmodel.Join, derived []readmodel.Derived) string {
	current := tables[collection]

	fields := project
	if len(fields) == 0 {
		fields = readmodel.Fields(collection)
	}

	pairs := make([]string, 0, len(fields)+len(joins)+len(derived))
	for _, field := range fields {
		pairs = append(pairs, fmt.Sprintf("'%s', %s.%s", field, alias, current.columns[field]))
	}

	for _, join := range joins {
		pairs = append(pairs, fmt.Sprintf("'%s', %s", join.As, compiler.join(alias, collection, join)))
	}

	for _, value := range derived {
		pairs = append(pairs, fmt.Sprintf("'%s', %s", value.As, compiler.derived(alias, collection, value)))
	}

	return "json_build_object(" + strings.Join(pairs, ", ") + ")"
}

func (compiler *compiler) join(parentAlias string, parent readmodel.Collection, join readmodel.Join) string {
	foreign := tables[join.From]
	local := fmt.Sprintf("%s.%s", parentAlias, tables[parent].columns[join.LocalField])
	alias := compiler.alias()
	document := compiler.document(alias, join.From, join.Project, join.Joins, join.Derived)
	match := compiler.conditions(alias, join.From, join.Match)

	if join.Many {
		sequence := alias + "s"
		query := fmt.Sprintf(
			"SELECT json_agg(%s ORDER BY %s.ord) FROM unnest(%s) WITH ORDINALITY AS %s(ref, ord) JOIN %s %s ON %s.%s = %s.ref",
			document, sequence, local, sequence, foreign.name, alias, alias, foreign.columns[join.ForeignKey()], sequence,
		)
		if match != "" {
			query += " WHERE " + match
		}
		return fmt.Sprintf("COALESCE((%s), '[]'::json)", query)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s WHERE %s.%s = %s",
		document, foreign.name, alias, alias, foreign.columns[join.ForeignKey()], local)
	if match != "" {
		query += " AND " + match
	}
	return "(" + query + " LIMIT 1)"
}

func (compiler *compiler) derived(parentAlias string, parent readmodel.Collection, derived readmodel.Derived) string {
	local := fmt.Sprintf("%s.%s", parentAlias, tables[parent].columns[derived.LocalKey()])

	if derived.Kind == readmodel.DerivedLength {
		return fmt.Sprintf("COALESCE(cardinality(%s), 0)", local)
	}

	foreign := tables[derived.From]
	alias := compiler.alias()
	predicate := fmt.Sprintf("%s.%s = %s", alias, foreign.columns[derived.ForeignField], local)
	if match := compiler.conditions(alias, derived.From, derived.Match); match != "" {
		predicate += " AND " + match
	}

	if derived.Kind == readmodel.DerivedExists {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM %s %s WHERE %s)", foreign.name, alias, predicate)
	}
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s %s WHERE %s)", foreign.name, alias, predicate)
}

// where combines base conditions with the existence checks of required joins.
func (compiler *compiler) where(alias string, collection readmodel.Collection, match []readmodel.Condition, joins []readmodel.Join) string {
	clauses := []string{}
	if conditions := compiler.conditions(alias, collection, match); conditions != "" {
		clauses = append(clauses, conditions)
	}

	for _, join := range joins {
		if !join.Required || join.Many {
			continue
		}

		foreign := tables[join.From]
		joinAlias := compiler.alias()
		predicate := fmt.Sprintf("%s.%s = %s.%s",
			joinAlias, foreign.columns[join.ForeignKey()], alias, tables[collection].columns[join.LocalField])
		if conditions := compiler.conditions(joinAlias, join.From, join.Match); conditions != "" {
			predicate += " AND " + conditions
		}
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM %s %s WHERE %s)", foreign.name, joinAlias, predicate))
	}

	return strings.Join(clauses, " AND ")
}

func (compiler *compiler) conditions(alias string, collection readmodel.Collection, conditions []readmodel.Condition) string {
	clauses := make([]string, 0, len(conditions))
	for _, condition := range conditions {
		clauses = append(clauses, compiler.condition(alias, collection, condition))
	}
	return strings.Join(clauses, " AND ")
}

func (compiler *compiler) condition(alias string, collection readmodel.Collection, condition readmodel.Condition) string {
	columns := tables[collection].columns

	switch condition.Op {
	case readmodel.OpEq:
		return fmt.Sprintf("%s.%s = %s", alias, columns[condition.Field], compiler.bind(condition.Value))

	case readmodel.OpSearch:
		if len(condition.Fields) == 0 {
			return "FALSE"
		}
		pattern := compiler.bind("%" + escapeLike(condition.Text) + "%")
		alternatives := make([]string, 0, len(condition.Fields))
		for _, field := range condition.Fields {
			alternatives = append(alternatives, fmt.Sprintf(`%s.%s ILIKE %s ESCAPE '\'`, alias, columns[field], pattern))
		}
		return "(" + strings.Join(alternatives, " OR ") + ")"

	case readmodel.OpAnyOf:
		alternatives := make([]string, 0, len(condition.Any))
		for _, alternative := range condition.Any {
			alternatives = append(alternatives, compiler.condition(alias, collection, alternative))
		}
		if len(alternatives) == 0 {
			return "FALSE"
		}
		return "(" + strings.Join(alternatives, " OR ") + ")"
	}

	return "FALSE"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}
