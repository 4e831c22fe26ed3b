package models

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

// vote_count is always derived from the votes table at read time, never
// stored on the post row.
const postColumns = `
	p.id, p.user_id, p.title, p.post_url, p.created_at, u.username,
	(SELECT COUNT(*) FROM votes v WHERE v.post_id = p.id) AS vote_count
`

// ListPosts returns all posts newest first, each augmented with the owner's
// username, its vote count and its comments.
func ListPosts(db *sqlx.DB) ([]Post, error) {
	var posts []Post
	err := db.Select(&posts, `SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	if err := attachComments(db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByUser returns one user's posts with the same augmentation as
// ListPosts.
func ListPostsByUser(db *sqlx.DB, userID int) ([]Post, error) {
	var posts []Post
	err := db.Select(&posts, `SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	if err := attachComments(db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func GetPost(db *sqlx.DB, id int) (*Post, error) {
	var p Post
	err := db.Get(&p, `SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	comments, err := ListComments(db, id)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return &p, nil
}

// ListComments returns a post's comments oldest first, each with the
// commenting user's username.
func ListComments(db *sqlx.DB, postID int) ([]Comment, error) {
	var comments []Comment
	err := db.Select(&comments, `SELECT c.id, c.post_id, c.user_id, c.comment_text, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func attachComments(db *sqlx.DB, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	query, args, err := sqlx.In(`SELECT c.id, c.post_id, c.user_id, c.comment_text, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id IN (?)
		ORDER BY c.created_at, c.id`, ids)
	if err != nil {
		return err
	}
	var comments []Comment
	if err := db.Select(&comments, db.Rebind(query), args...); err != nil {
		return err
	}
	byPost := make(map[int][]Comment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
	}
	return nil
}

func CreatePost(db *sqlx.DB, userID int, title, postURL string) (*Post, error) {
	title = strings.TrimSpace(title)
	postURL = strings.TrimSpace(postURL)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	}
	if postURL == "" {
		return nil, &ValidationError{Field: "post_url", Message: "is required"}
	}
	res, err := db.Exec(`INSERT INTO posts (user_id, title, post_url) VALUES (?, ?, ?)`,
		userID, title, postURL)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetPost(db, int(id))
}

// UpdatePost changes the title of a post owned by userID.
func UpdatePost(db *sqlx.DB, id, userID int, title string) (*Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	}
	res, err := db.Exec(`UPDATE posts SET title = ? WHERE id = ? AND user_id = ?`, title, id, userID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := GetPost(db, id); errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, ErrNotPostOwner
	}
	return GetPost(db, id)
}

// DeletePost removes a post owned by userID together with its comments and
// votes.
func DeletePost(db *sqlx.DB, id, userID int) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ownerID int
	err = tx.Get(&ownerID, `SELECT user_id FROM posts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrNotPostOwner
	}

	if _, err := tx.Exec(`DELETE FROM votes WHERE post_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func postExists(db *sqlx.DB, id int) (bool, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(1) FROM posts WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func CreateComment(db *sqlx.DB, userID, postID int, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Field: "comment_text", Message: "is required"}
	}
	if ok, err := postExists(db, postID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrPostNotFound
	}
	res, err := db.Exec(`INSERT INTO comments (post_id, user_id, comment_text) VALUES (?, ?, ?)`,
		postID, userID, text)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var c Comment
	err = db.Get(&c, `SELECT c.id, c.post_id, c.user_id, c.comment_text, c.created_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddVote records an upvote and returns the recomputed count for the post.
// With allowRepeat false a second vote by the same user is a no-op; with it
// true every call adds a vote row.
func AddVote(db *sqlx.DB, userID, postID int, allowRepeat bool) (int, error) {
	if ok, err := postExists(db, postID); err != nil {
		return 0, err
	} else if !ok {
		return 0, ErrPostNotFound
	}
	var err error
	if allowRepeat {
		_, err = db.Exec(`INSERT INTO votes (post_id, user_id) VALUES (?, ?)`, postID, userID)
	} else {
		_, err = db.Exec(`INSERT INTO votes (post_id, user_id)
			SELECT ?, ?
			WHERE NOT EXISTS (SELECT 1 FROM votes WHERE post_id = ? AND user_id = ?)`,
			postID, userID, postID, userID)
	}
	if err != nil {
		return 0, err
	}
	return CountVotes(db, postID)
}

// CountVotes returns the number of vote rows for a post.
func CountVotes(db *sqlx.DB, postID int) (int, error) {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM votes WHERE post_id = ?`, postID); err != nil {
		return 0, err
	}
	return n, nil
}
