package core

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/auth"
	"github.com/goconduit/conduit/internal/database"
	"github.com/goconduit/conduit/models"
)

var ErrSelfFollow = xerrors.Message("cannot follow yourself")

func scanProfile(rows *sql.Rows) (*models.Profile, error) {
	profile := &models.Profile{}
	if err := rows.Scan(
		&profile.ID,
		&profile.Username,
		&profile.Bio,
		&profile.Image,
		&profile.Following,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return profile, nil
}

// GetProfile fetches a profile with the following flag computed relative to
// the viewer. Pass viewerID 0 for an anonymous viewer; it matches no follow
// row, so following is false.
func (c *Core) GetProfile(ctx context.Context, viewerID int64, username string) (*models.Profile, error) {
	query := `
		SELECT
			id,
			username,
			bio,
			image,
			EXISTS (
				SELECT 1 FROM follows
				WHERE follower_id = $1 AND followee_id = users.id
			) AS following
		FROM users
		WHERE username = $2 AND deleted = FALSE
	`

	profile, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanProfile, viewerID, username)
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}

	return profile, nil
}

func (c *Core) GetProfileByUserId(ctx context.Context, viewerID int64, userID int64) (*models.Profile, error) {
	query := `
		SELECT
			id,
			username,
			bio,
			image,
			EXISTS (
				SELECT 1 FROM follows
				WHERE follower_id = $1 AND followee_id = users.id
			) AS following
		FROM users
		WHERE id = $2 AND deleted = FALSE
	`

	profile, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanProfile, viewerID, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}

	return profile, nil
}

// FollowUser inserts the follow row, tolerating duplicates, and returns the
// followee's profile as seen by the follower.
func (c *Core) FollowUser(ctx context.Context, follower *auth.User, followeeUsername string) (*models.Profile, error) {
	followee, err := c.GetUserByUsername(ctx, followeeUsername)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if followee.ID == follower.ID {
		return nil, xerrors.New(ErrSelfFollow)
	}

	insertSQL := `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := database.ExecuteUpdate(c.sqlTemplate, ctx, insertSQL, follower.ID, followee.ID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.GetProfile(ctx, follower.ID, followeeUsername)
}

// UnfollowUser deletes the follow row; a missing row is not an error.
func (c *Core) UnfollowUser(ctx context.Context, follower *auth.User, followeeUsername string) (*models.Profile, error) {
	followee, err := c.GetUserByUsername(ctx, followeeUsername)
	if err != nil {
		return nil, xerrors.New(err)
	}

	deleteSQL := `
		DELETE FROM follows
		WHERE follower_id = $1 AND followee_id = $2
	`

	if _, err := database.ExecuteUpdate(c.sqlTemplate, ctx, deleteSQL, follower.ID, followee.ID); err != nil {
		return nil, xerrors.New(err)
	}

	return c.GetProfile(ctx, follower.ID, followeeUsername)
}

// FollowingSet reports which of the given users the viewer follows.
func (c *Core) FollowingSet(ctx context.Context, viewerID int64, userIDs []int64) (map[int64]bool, error) {
	following := make(map[int64]bool, len(userIDs))
	if viewerID == 0 || len(userIDs) == 0 {
		return following, nil
	}

	fragment := database.F(`
		SELECT followee_id
		FROM follows
		WHERE follower_id = ? AND followee_id IN (`, viewerID).
		Concat(database.Placeholders(userIDs)).
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
		following[id] = true
	}

	return following, nil
}
