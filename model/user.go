package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"size:32;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:256;not null"`

	// AccessToken holds the most recently issued session token. Only that
	// token is valid; issuing a new one rotates the old one out. Both
	// fields are nil until the first successful authentication.
	AccessToken    *string `gorm:"size:512"`
	TokenExpiresAt *time.Time

	Files []File `gorm:"foreignKey:UserID"`
}
