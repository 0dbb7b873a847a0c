package storage

import "time"

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// User represents an account in the users table.
// Deleting a user cascades to its notes through the foreign key declared on Notes.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password;not null"`
	Role         Role      `gorm:"type:varchar(16);not null;default:User"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`

	Notes []Note `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsAdmin reports whether the user has the Admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Note represents a text note owned by exactly one user.
type Note struct {
	ID        int64     `gorm:"primaryKey"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	UserID    int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	User *User `gorm:"constraint:OnDelete:CASCADE"`
}
