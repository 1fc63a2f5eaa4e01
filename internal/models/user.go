// Package models contains data structures for the application's domain models.
package models

import "time"

// User is an account holder. Email is unique and stored normalized.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"user_id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Email     string    `gorm:"size:254;not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID implements Ownable; an account is owned by itself.
func (u *User) OwnerID() uint { return u.ID }

// Ownable is an entity whose mutations are restricted to a single user.
type Ownable interface {
	OwnerID() uint
}
