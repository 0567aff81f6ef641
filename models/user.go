package models

import "time"

// AdminUser lives in the local provider's blob. Local mode keeps the demo
// credentials in plain text, mirroring the configured login/password.
type AdminUser struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Profile is the remote backend's user row. Passwords are bcrypt hashes and
// the role gate runs against this table after credential checks.
type Profile struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Login        string    `json:"login" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:'viewer'"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const RoleAdmin = "admin"

// AdminSession exists only while logged in.
type AdminSession struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"createdAt"`
}
