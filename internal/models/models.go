package models

import "time"

type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Session struct {
	ID        string     `db:"id"`
	UserID    int        `db:"user_id"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// Post carries its row columns plus read-time augmentation: the owner's
// username, the vote count derived from the votes table and the post's
// comments.
type Post struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	PostURL   string    `db:"post_url" json:"post_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Username  string    `db:"username" json:"username"`
	VoteCount int       `db:"vote_count" json:"vote_count"`
	Comments  []Comment `db:"-" json:"comments"`
}

type Comment struct {
	ID          int       `db:"id" json:"id"`
	PostID      int       `db:"post_id" json:"post_id"`
	UserID      int       `db:"user_id" json:"user_id"`
	CommentText string    `db:"comment_text" json:"comment_text"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	Username string `db:"username" json:"username"`
}
