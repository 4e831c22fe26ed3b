package models_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"techblog/internal/models"
)

func registerUser(t *testing.T, database *sqlx.DB, username, email string) *models.User {
	t.Helper()
	u, err := models.RegisterUser(database, username, email, "secret", bcrypt.MinCost)
	require.NoError(t, err)
	return u
}

func TestVoteCountIsDerivedFromVotes(t *testing.T) {
	database := newTestDB(t)
	alice := registerUser(t, database, "alice", "alice@example.com")
	bob := registerUser(t, database, "bob", "bob@example.com")

	post, err := models.CreatePost(database, alice.ID, "Go at scale", "https://example.com/go")
	require.NoError(t, err)
	assert.Equal(t, 0, post.VoteCount)

	count, err := models.AddVote(database, alice.ID, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = models.AddVote(database, bob.ID, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// re-reads are idempotent
	got, err := models.GetPost(database, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VoteCount)
	got, err = models.GetPost(database, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VoteCount)
}

func TestRepeatVotePolicy(t *testing.T) {
	database := newTestDB(t)
	alice := registerUser(t, database, "alice", "alice@example.com")

	post, err := models.CreatePost(database, alice.ID, "title", "https://example.com")
	require.NoError(t, err)

	count, err := models.AddVote(database, alice.ID, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// default policy: second vote by the same user keeps the count
	count, err = models.AddVote(database, alice.ID, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// repeat-allowed policy records every vote
	count, err = models.AddVote(database, alice.ID, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestVoteOnMissingPost(t *testing.T) {
	database := newTestDB(t)
	alice := registerUser(t, database, "alice", "alice@example.com")

	_, err := models.AddVote(database, alice.ID, 9999, false)
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	database := newTestDB(t)
	alice := registerUser(t, database, "alice", "alice@example.com")

	_, err := models.CreateComment(database, alice.ID, 9999, "first!")
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	// no orphan row was written
	var n int
	require.NoError(t, database.Get(&n, `SELECT COUNT(*) FROM comments`))
	assert.Zero(t, n)
}

func TestListPostsAugmentation(t *testing.T) {
	database := newTestDB(t)
	alice := registerUser(t, database, "alice", "alice@example.com")
	bob := registerUser(t, database, "bob", "bob@example.com")

	first, err := models.CreatePost(database, alice.ID, "first", "https://example.com/1")
	require.NoError(t, err)
	second, err := models.CreatePost(database, bob.ID, "second", "https://example.com/2")
	require.NoError(t, err)

	_, err = models.CreateComment(database, bob.ID, first.ID, "nice link")
	require.NoError(t, err)
	_, err = models.AddVote(database, bob.ID, first.ID, false)
	require.NoError(t, err)

	posts, err := models.ListPosts(database)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// newest first
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	assert.Equal(t, "bob", posts[0].Username)
	assert.Equal(t, "alice", posts[1].Username)

	assert.Equal(t, 1, posts[1].VoteCount)
	require.Len(t, posts[1].Comments, 1)
	assert.Equal(t, "nice link", posts[1].Comments[0].CommentText)
	assert.Equal(t, "bob", posts[1].Comments[0].Username)
	assert.Empty(t, posts[0].Comments)
}

func TestGetPostIncludesComments(t *testing.T) {
	database := newTestDB(t)
	alice := registerUser(t, database, "alice", "alice@example.com")
	bob := registerUser(t, database, "bob", "bob@example.com")

	post, err := models.CreatePost(database, alice.ID, "title", "https://example.com")
	require.NoError(t, err)

	_, err = models.CreateComment(database, bob.ID, post.ID, "first")
	require.NoError(t, err)
	_, err = models.CreateComment(database, alice.ID, post.ID, "second")
	require.NoError(t, err)

	got, err := models.GetPost(database, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	require.Len(t, got.Comments, 2)

	// oldest first, each with its author's username
	assert.Equal(t, "first", got.Comments[0].CommentText)
	assert.Equal(t, "bob", got.Comments[0].Username)
	assert.Equal(t, "second", got.Comments[1].CommentText)
	assert.Equal(t, "alice", got.Comments[1].Username)
}

func TestGetPostMissing(t *testing.T) {
	database := newTestDB(t)
	_, err := models.GetPost(database, 42)
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}

func TestUpdateAndDeletePostOwnership(t *testing.T) {
	database := newTestDB(t)
	alice := registerUser(t, database, "alice", "alice@example.com")
	bob := registerUser(t, database, "bob", "bob@example.com")

	post, err := models.CreatePost(database, alice.ID, "old title", "https://example.com")
	require.NoError(t, err)

	_, err = models.UpdatePost(database, post.ID, bob.ID, "hijacked")
	assert.ErrorIs(t, err, models.ErrNotPostOwner)

	updated, err := models.UpdatePost(database, post.ID, alice.ID, "new title")
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)

	err = models.DeletePost(database, post.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrNotPostOwner)

	_, err = models.CreateComment(database, bob.ID, post.ID, "bye")
	require.NoError(t, err)
	_, err = models.AddVote(database, bob.ID, post.ID, false)
	require.NoError(t, err)

	require.NoError(t, models.DeletePost(database, post.ID, alice.ID))
	_, err = models.GetPost(database, post.ID)
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	// comments and votes went with the post
	var n int
	require.NoError(t, database.Get(&n, `SELECT COUNT(*) FROM comments`))
	assert.Zero(t, n)
	require.NoError(t, database.Get(&n, `SELECT COUNT(*) FROM votes`))
	assert.Zero(t, n)
}
