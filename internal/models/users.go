package models

import (
	"database/sql"
	"errors"
	"net/mail"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the minimum plaintext password length accepted on
// registration and password change.
const MinPasswordLen = 4

// HashPassword is the pre-persistence transform applied to every plaintext
// password before it reaches the users table. bcrypt salts per call, so the
// same plaintext never produces the same hash twice.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return &ValidationError{Field: "password", Message: "must be at least 4 characters"}
	}
	return nil
}

// RegisterUser validates the input, hashes the password and inserts the user.
func RegisterUser(db *sqlx.DB, username, email, password string, cost int) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "is required"}
	}
	if !validEmail(email) {
		return nil, &ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password, cost)
	if err != nil {
		return nil, err
	}

	res, err := db.Exec(`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, hash)
	if isUniqueErr(err, "users.email") {
		return nil, &ValidationError{Field: "email", Message: "is already registered"}
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetUser(db, int(id))
}

func GetUser(db *sqlx.DB, id int) (*User, error) {
	var u User
	err := db.Get(&u, `SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByEmail(db *sqlx.DB, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var u User
	err := db.Get(&u, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser returns the user matching email and password. Unknown
// email and wrong password both return ErrInvalidCredentials so callers
// cannot tell registered emails apart from unregistered ones.
func AuthenticateUser(db *sqlx.DB, email, password string) (*User, error) {
	u, err := GetUserByEmail(db, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// UpdatePassword re-hashes exactly as at registration; because of the fresh
// salt the stored hash changes even when the plaintext does not.
func UpdatePassword(db *sqlx.DB, userID int, newPassword string, cost int) (*User, error) {
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}
	hash, err := HashPassword(newPassword, cost)
	if err != nil {
		return nil, err
	}
	res, err := db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, hash, userID)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrUserNotFound
	}
	return GetUser(db, userID)
}
