package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/database"
	"github.com/goconduit/conduit/models"
)

func scanComment(rows *sql.Rows) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := rows.Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return comment, nil
}

func (c *Core) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	insertSQL := `
		INSERT INTO comments (article_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, article_id, author_id, body, created_at, updated_at
	`

	created, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, insertSQL, scanComment,
		comment.ArticleID, comment.AuthorID, comment.Body)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return created, nil
}

// GetCommentsByArticleId lists live comments oldest first.
func (c *Core) GetCommentsByArticleId(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	query := `
		SELECT id, article_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE article_id = $1 AND deleted = FALSE
		ORDER BY created_at, id
	`

	comments, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, scanComment, articleID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return comments, nil
}

// SoftDeleteComment marks the comment deleted, scoped by author and by the
// article slug: the right comment id under the wrong slug matches nothing.
func (c *Core) SoftDeleteComment(ctx context.Context, commentID, authorID int64, slug string) error {
	query := `
		UPDATE comments
		SET deleted = TRUE
		WHERE id = $1
		  AND author_id = $2
		  AND deleted = FALSE
		  AND article_id IN (
			SELECT id FROM articles WHERE slug = $3 AND deleted = FALSE
		  )
	`

	affected, err := database.ExecuteUpdate(c.sqlTemplate, ctx, query, commentID, authorID, slug)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}
