package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/database"
	"github.com/goconduit/conduit/models"
)

// UpsertTags inserts the tag names, reusing existing rows by name, and
// returns tags with stable ids in input order.
func (c *Core) UpsertTags(ctx context.Context, names []string) ([]*models.Tag, error) {
	if len(names) == 0 {
		return []*models.Tag{}, nil
	}

	values := make([]database.Fragment, len(names))
	for i, name := range names {
		values[i] = database.F("(?)", name)
	}

	// The DO UPDATE arm makes RETURNING yield a row for pre-existing names
	// too, which ON CONFLICT DO NOTHING would not.
	fragment := database.F(`
		INSERT INTO tags (name)
		VALUES `).
		Concat(database.Join(", ", values)).
		Concat(database.F(`
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`))

	query, args := fragment.Build()
	returned, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Tag, error) {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, xerrors.New(err)
		}
		return tag, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	byName := make(map[string]*models.Tag, len(returned))
	for _, tag := range returned {
		byName[tag.Name] = tag
	}

	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := byName[name]
		if !ok {
			return nil, xerrors.Newf("tag %q missing from upsert result", name)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// AddArticleTags inserts the join rows in one batch statement.
func (c *Core) AddArticleTags(ctx context.Context, articleID int64, tags []*models.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	values := make([]database.Fragment, len(tags))
	for i, tag := range tags {
		values[i] = database.F("(?, ?)", articleID, tag.ID)
	}

	fragment := database.F(`
		INSERT INTO article_tags (article_id, tag_id)
		VALUES `).
		Concat(database.Join(", ", values)).
		Concat(database.F(`
		ON CONFLICT DO NOTHING`))

	query, args := fragment.Build()
	if _, err := database.ExecuteUpdate(c.sqlTemplate, ctx, query, args...); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// GetTagsByArticleId maps each article id to its tag names, sorted by name.
func (c *Core) GetTagsByArticleId(ctx context.Context, articleIDs []int64) (map[int64][]string, error) {
	tagsByArticle := make(map[int64][]string, len(articleIDs))
	if len(articleIDs) == 0 {
		return tagsByArticle, nil
	}

	fragment := database.F(`
		SELECT article_tags.article_id, tags.name
		FROM article_tags
		JOIN tags ON tags.id = article_tags.tag_id
		WHERE article_tags.article_id IN (`).
		Concat(database.Placeholders(articleIDs)).
		Concat(database.F(`)
		ORDER BY tags.name`))

	type articleTag struct {
		articleID int64
		name      string
	}

	query, args := fragment.Build()
	results, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (articleTag, error) {
		var at articleTag
		if err := rows.Scan(&at.articleID, &at.name); err != nil {
			return at, xerrors.New(err)
		}
		return at, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	for _, at := range results {
		tagsByArticle[at.articleID] = append(tagsByArticle[at.articleID], at.name)
	}

	return tagsByArticle, nil
}

// GetAllTagNames lists every distinct tag name, sorted.
func (c *Core) GetAllTagNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM tags
		ORDER BY name
	`

	names, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (string, error) {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", xerrors.New(err)
		}
		return name, nil
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	return names, nil
}
