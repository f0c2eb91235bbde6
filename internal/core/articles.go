package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/database"
	"github.com/goconduit/conduit/internal/filter"
	"github.com/goconduit/conduit/models"
)

var ErrDuplicatedSlug = xerrors.Message("duplicate slug")

// slugAttempts bounds the retry loop when the random suffix collides with an
// existing slug.
const slugAttempts = 5

// ArticleChanges carries the fields of a partial article update. A nil field
// leaves the column untouched. A present title also regenerates the slug.
type ArticleChanges struct {
	Title       *string
	Description *string
	Body        *string
}

func scanArticle(rows *sql.Rows) (*models.Article, error) {
	article := &models.Article{}
	if err := rows.Scan(
		&article.ID,
		&article.AuthorID,
		&article.Slug,
		&article.Title,
		&article.Description,
		&article.Body,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return article, nil
}

// CreateArticle inserts the article and its tag joins, generating a fresh
// slug for this attempt. A slug collision surfaces as ErrDuplicatedSlug; the
// caller retries in a new transaction, since a failed statement aborts the
// current one.
func (c *Core) CreateArticle(ctx context.Context, article *models.Article, tagNames []string) (*models.Article, error) {
	insertSQL := `
		INSERT INTO articles (author_id, slug, title, description, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, author_id, slug, title, description, body, created_at, updated_at
	`

	slug := MakeSlug(article.Title)
	now := time.Now().UTC()

	created, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanArticle,
		article.AuthorID, slug, article.Title, article.Description, article.Body, now)
	if err != nil {
		if isUniqueViolation(err, "articles_slug_key") {
			c.log.Warn("slug collision", "slug", slug)
			return nil, xerrors.New(ErrDuplicatedSlug)
		}
		return nil, xerrors.New(err)
	}

	if len(tagNames) > 0 {
		tags, err := c.UpsertTags(ctx, tagNames)
		if err != nil {
			return nil, xerrors.New(err)
		}
		if err := c.AddArticleTags(ctx, created.ID, tags); err != nil {
			return nil, xerrors.New(err)
		}
	}

	return created, nil
}

func (c *Core) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `
		SELECT id, author_id, slug, title, description, body, created_at, updated_at
		FROM articles
		WHERE slug = $1 AND deleted = FALSE
	`

	article, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, slug)
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}

	return article, nil
}

// GetArticles lists non-deleted articles, newest first, applying the optional
// tag/author/favorited filters ANDed together. The returned metadata count
// ignores pagination.
func (c *Core) GetArticles(ctx context.Context, filters filter.Filter, tag, author, favoritedBy string) ([]*models.Article, filter.Metadata, error) {
	fragments := []database.Fragment{database.F(`
		SELECT count(*) OVER() AS total_count,
		       id, author_id, slug, title, description, body, created_at, updated_at
		FROM articles
		WHERE deleted = FALSE
	`)}

	if tag != "" {
		fragments = append(fragments, database.F(`
			AND EXISTS (
				SELECT 1
				FROM article_tags
				JOIN tags ON tags.id = article_tags.tag_id
				WHERE article_tags.article_id = articles.id AND tags.name = ?
			)
		`, tag))
	}

	if author != "" {
		fragments = append(fragments, database.F(`
			AND author_id IN (
				SELECT id FROM users WHERE username = ? AND deleted = FALSE
			)
		`, author))
	}

	if favoritedBy != "" {
		fragments = append(fragments, database.F(`
			AND EXISTS (
				SELECT 1
				FROM favorites
				WHERE favorites.article_id = articles.id AND favorites.user_id = (
					SELECT id FROM users WHERE username = ? AND deleted = FALSE
				)
			)
		`, favoritedBy))
	}

	fragments = append(fragments, database.F(`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, filters.Limit, filters.Offset))

	return c.runArticleListQuery(ctx, database.Join("", fragments))
}

// GetFeedArticles lists articles authored by users the caller follows.
func (c *Core) GetFeedArticles(ctx context.Context, userID int64, filters filter.Filter) ([]*models.Article, filter.Metadata, error) {
	fragment := database.F(`
		SELECT count(*) OVER() AS total_count,
		       id, author_id, slug, title, description, body, created_at, updated_at
		FROM articles
		WHERE deleted = FALSE
		AND author_id IN (
			SELECT followee_id FROM follows WHERE follower_id = ?
		)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, filters.Limit, filters.Offset)

	return c.runArticleListQuery(ctx, fragment)
}

func (c *Core) runArticleListQuery(ctx context.Context, fragment database.Fragment) ([]*models.Article, filter.Metadata, error) {
	query, args := fragment.Build()

	var totalCount int64
	articles, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*models.Article, error) {
		article := &models.Article{}
		if err := rows.Scan(
			&totalCount,
			&article.ID,
			&article.AuthorID,
			&article.Slug,
			&article.Title,
			&article.Description,
			&article.Body,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, xerrors.New(err)
		}
		return article, nil
	}, args...)

	if err != nil {
		return nil, filter.Metadata{}, xerrors.New(err)
	}

	return articles, filter.Metadata{ArticlesCount: totalCount}, nil
}

// UpdateArticle applies a partial update scoped to the owning author. The
// slug is regenerated only when the title changes; on a slug collision the
// statement is retried with a fresh suffix.
func (c *Core) UpdateArticle(ctx context.Context, slug string, authorID int64, changes ArticleChanges) (*models.Article, error) {
	if changes.Title == nil && changes.Description == nil && changes.Body == nil {
		return c.getOwnedArticle(ctx, slug, authorID)
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		var sets []database.Fragment
		if changes.Title != nil {
			sets = append(sets, database.F("title = ?, slug = ?", *changes.Title, MakeSlug(*changes.Title)))
		}
		if changes.Description != nil {
			sets = append(sets, database.F("description = ?", *changes.Description))
		}
		if changes.Body != nil {
			sets = append(sets, database.F("body = ?", *changes.Body))
		}
		sets = append(sets, database.F("updated_at = now()"))

		fragment := database.F("UPDATE articles SET ").
			Concat(database.Join(", ", sets)).
			Concat(database.F(`
				WHERE slug = ? AND author_id = ? AND deleted = FALSE
				RETURNING id, author_id, slug, title, description, body, created_at, updated_at
			`, slug, authorID))

		query, args := fragment.Build()
		article, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanArticle, args...)
		if err != nil {
			if isNoRows(err) {
				return nil, xerrors.New(NoRecordFound)
			}
			if changes.Title != nil && isUniqueViolation(err, "articles_slug_key") {
				c.log.Warn("slug collision on update, retrying", "slug", slug)
				continue
			}
			return nil, xerrors.New(err)
		}

		return article, nil
	}

	return nil, xerrors.New(ErrDuplicatedSlug)
}

func (c *Core) getOwnedArticle(ctx context.Context, slug string, authorID int64) (*models.Article, error) {
	article, err := c.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != authorID {
		return nil, xerrors.New(NoRecordFound)
	}
	return article, nil
}

// SoftDeleteArticle marks the article deleted, scoped to the owner. Zero
// affected rows means no owned, live article matched the slug.
func (c *Core) SoftDeleteArticle(ctx context.Context, slug string, authorID int64) error {
	query := `
		UPDATE articles
		SET deleted = TRUE
		WHERE slug = $1 AND author_id = $2 AND deleted = FALSE
	`

	affected, err := database.ExecuteUpdate(c.sqlTemplate, ctx, query, slug, authorID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}

// FavouriteArticle inserts the favorite row; duplicate attempts are ignored.
func (c *Core) FavouriteArticle(ctx context.Context, articleID, userID int64) error {
	query := `
		INSERT INTO favorites (article_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := database.ExecuteUpdate(c.sqlTemplate, ctx, query, articleID, userID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// UnfavouriteArticle deletes the favorite row; a missing row is not an error.
func (c *Core) UnfavouriteArticle(ctx context.Context, articleID, userID int64) error {
	query := `
		DELETE FROM favorites
		WHERE article_id = $1 AND user_id = $2
	`

	if _, err := database.ExecuteUpdate(c.sqlTemplate, ctx, query, articleID, userID); err != nil {
		return xerrors.New(err)
	}

	return nil
}

// FavouriteArticleByArticleId reports which of the given articles the user
// favorited. A nil user favorites nothing.
func (c *Core) FavouriteArticleByArticleId(ctx context.Context, articleIDs []int64, userID int64) (map[int64]bool, error) {
	favorited := make(map[int64]bool, len(articleIDs))
	if userID == 0 || len(articleIDs) == 0 {
		return favorited, nil
	}

	fragment := database.F(`
		SELECT article_id
		FROM favorites
		WHERE user_id = ? AND article_id IN (`, userID).
		Concat(database.Placeholders(articleIDs)).
		Concat(database.F(`)`))

	query, args := fragment.Build()
	ids, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (int64, error) {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, xerrors.New(err)
		}
		return id, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	for _, id := range ids {
		favorited[id] = true
	}

	return favorited, nil
}

// FavouriteCountByArticleId returns favorite counts for the given articles.
// Articles with no favorites are absent from the map.
func (c *Core) FavouriteCountByArticleId(ctx context.Context, articleIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return counts, nil
	}

	fragment := database.F(`
		SELECT article_id, count(*)
		FROM favorites
		WHERE article_id IN (`).
		Concat(database.Placeholders(articleIDs)).
		Concat(database.F(`)
		GROUP BY article_id`))

	type articleCount struct {
		articleID int64
		count     int64
	}

	query, args := fragment.Build()
	results, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (articleCount, error) {
		var ac articleCount
		if err := rows.Scan(&ac.articleID, &ac.count); err != nil {
			return ac, xerrors.New(err)
		}
		return ac, nil
	}, args...)

	if err != nil {
		return nil, xerrors.New(err)
	}

	for _, ac := range results {
		counts[ac.articleID] = ac.count
	}

	return counts, nil
}
