package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPublic is the user shape returned to clients; it never carries the
// password hash.
type UserPublic struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func (u User) Public() UserPublic {
	return UserPublic{ID: u.ID, Username: u.Username, Email: u.Email}
}

// AuthClaims is the decoded payload of a validated access token.
type AuthClaims struct {
	Subject   string
	ExpiresAt time.Time
}
