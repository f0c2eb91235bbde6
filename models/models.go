package models

import "time"

// Profile is the public view of a user, with the following flag computed
// relative to the (optionally authenticated) viewer.
type Profile struct {
	ID        int64   `json:"-"`
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type Article struct {
	ID          int64
	AuthorID    int64
	Slug        string
	Title       string
	Description string
	Body        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Tag struct {
	ID   int64
	Name string
}

type Comment struct {
	ID        int64
	ArticleID int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
