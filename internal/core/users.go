package core

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/auth"
	"github.com/goconduit/conduit/internal/database"
)

var (
	ErrDuplicateUser     = xerrors.Message("duplicate user")
	ErrDuplicateEmail    = xerrors.Message("duplicate email")
	ErrDuplicateUsername = xerrors.Message("duplicate username")
)

// UserChanges carries the fields of a partial user update. A nil field leaves
// the column untouched.
type UserChanges struct {
	Email        *string
	Username     *string
	PasswordHash []byte
	Bio          *string
	Image        *string
}

func scanUser(rows *sql.Rows) (*auth.User, error) {
	user := &auth.User{}
	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.Bio,
		&user.Image,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func (c *Core) CreateNewUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, lower($2), $3)
		RETURNING id
	`

	args := []any{user.Username, user.Email, user.Password}
	_, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, args...)

	if err != nil {
		if isUniqueViolation(err, "") {
			return xerrors.New(ErrDuplicateUser)
		}
		return xerrors.New(err)
	}

	user.Email = strings.ToLower(user.Email)
	return nil
}

// MatchingCredentials reports which unique fields an insert collided on, so
// registration can return one message per colliding field.
func (c *Core) MatchingCredentials(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE username = $1) AS matching_username,
			EXISTS (SELECT 1 FROM users WHERE email = lower($2)) AS matching_email
	`

	type match struct {
		username bool
		email    bool
	}

	result, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (match, error) {
		var m match
		if err := rows.Scan(&m.username, &m.email); err != nil {
			return m, xerrors.New(err)
		}
		return m, nil
	}, username, email)

	if err != nil {
		return false, false, xerrors.New(err)
	}

	return result.username, result.email, nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, email, username, password_hash, bio, image
		FROM users
		WHERE email = lower($1) AND deleted = FALSE
	`

	user, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, email)
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}

	return user, nil
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `
		SELECT id, email, username, password_hash, bio, image
		FROM users
		WHERE username = $1 AND deleted = FALSE
	`

	user, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, username)
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}

	return user, nil
}

func (c *Core) GetUserByID(ctx context.Context, userID int64) (*auth.User, error) {
	query := `
		SELECT id, email, username, password_hash, bio, image
		FROM users
		WHERE id = $1 AND deleted = FALSE
	`

	user, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}

	return user, nil
}

func (c *Core) GetUsersByIdList(ctx context.Context, userIdList []int64) ([]*auth.User, error) {
	if len(userIdList) == 0 {
		return []*auth.User{}, nil
	}

	fragment := database.F(`
		SELECT id, email, username, password_hash, bio, image
		FROM users
		WHERE id IN (`).
		Concat(database.Placeholders(userIdList)).
		Concat(database.F(`)`))

	query, args := fragment.Build()
	users, err := database.ExecuteQuery(c.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return users, nil
}

// UpdateUser applies only the fields present in changes and returns the
// resulting row.
func (c *Core) UpdateUser(ctx context.Context, userID int64, changes UserChanges) (*auth.User, error) {
	var sets []database.Fragment
	if changes.Email != nil {
		sets = append(sets, database.F("email = lower(?)", *changes.Email))
	}
	if changes.Username != nil {
		sets = append(sets, database.F("username = ?", *changes.Username))
	}
	if changes.PasswordHash != nil {
		sets = append(sets, database.F("password_hash = ?", changes.PasswordHash))
	}
	if changes.Bio != nil {
		sets = append(sets, database.F("bio = ?", *changes.Bio))
	}
	if changes.Image != nil {
		sets = append(sets, database.F("image = ?", *changes.Image))
	}

	if len(sets) == 0 {
		return c.GetUserByID(ctx, userID)
	}

	fragment := database.F("UPDATE users SET ").
		Concat(database.Join(", ", sets)).
		Concat(database.F(`
			WHERE id = ? AND deleted = FALSE
			RETURNING id, email, username, password_hash, bio, image
		`, userID))

	query, args := fragment.Build()
	user, err := database.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		switch {
		case isNoRows(err):
			return nil, xerrors.New(NoRecordFound)
		case isUniqueViolation(err, "users_email_key"):
			return nil, xerrors.New(ErrDuplicateEmail)
		case isUniqueViolation(err, "users_username_key"):
			return nil, xerrors.New(ErrDuplicateUsername)
		default:
			return nil, xerrors.New(err)
		}
	}

	c.log.Info("user updated", "user_id", user.ID)
	return user, nil
}

// SoftDeleteUser marks the row deleted; every read path filters on the flag,
// including token verification.
func (c *Core) SoftDeleteUser(ctx context.Context, userID int64) error {
	query := `
		UPDATE users
		SET deleted = TRUE
		WHERE id = $1 AND deleted = FALSE
	`

	affected, err := database.ExecuteUpdate(c.sqlTemplate, ctx, query, userID)
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(NoRecordFound)
	}

	return nil
}
