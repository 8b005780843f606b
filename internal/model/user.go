package model

import "time"

// User mirrors the 'users' table. Email is unique and compared byte-exact;
// the service never lowercases it on the way in or out.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Roles stored in users.role. There is no admin surface yet; the column
// exists so future authorization middleware can branch on it.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
