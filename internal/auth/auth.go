package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"golang.org/x/crypto/bcrypt"

	"github.com/goconduit/conduit/internal/web"
)

const userCtxKey = "authenticated_user"

var NotAuthenticatedUser = xerrors.Message("not authenticated user")

func (user *User) SetPassword(plainTextPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), 12)
	if err != nil {
		return xerrors.New(err)
	}

	user.Password = hashedPassword
	return nil
}

// IsPasswordMatch reports whether the plaintext password matches the stored
// hash. A mismatch is not an error.
func (user *User) IsPasswordMatch(plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(user.Password, []byte(plainTextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, xerrors.New(err)
	}

	return true, nil
}

// IssueToken signs a token carrying the user id as subject. It has no side
// effects: a token stays valid until expiry.
func (auth *Auth) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    auth.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(auth.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString(auth.secret)
	if err != nil {
		return "", xerrors.New(err)
	}

	return signedString, nil
}

// VerifyToken returns the user id embedded in a valid token. Signature,
// algorithm, issuer and expiry failures all surface as errors. Whether the
// subject still exists is the caller's check.
func (auth *Auth) VerifyToken(tokenString string) (int64, error) {
	parsedToken, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, xerrors.New("unexpected signing method")
			}
			return auth.secret, nil
		},
		jwt.WithIssuer(auth.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, xerrors.New(err)
	}

	if !parsedToken.Valid {
		return 0, xerrors.New("invalid token")
	}

	subject, err := parsedToken.Claims.GetSubject()
	if err != nil {
		return 0, xerrors.New(err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, xerrors.Newf("token subject is not a user id: %w", err)
	}

	return userID, nil
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	user, ok := web.GetValueFromContext[*User](r, userCtxKey)
	if !ok {
		return nil, NotAuthenticatedUser
	}

	return user, nil
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User) *http.Request {
	return web.AddValueToContext(r, userCtxKey, user)
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}
