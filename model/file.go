// Package model defines database models
package model

import "time"

type File struct {
	// Generated at upload time, never reused. The fixed 36-character shape
	// is what lets download lookups tell an ID apart from a logical path.
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"index;not null" json:"-"`

	// Original file name as given in the upload
	Name string `gorm:"size:256" json:"name"`

	// Logical path as seen by the owning user. Not unique: repeated
	// uploads to the same path keep their own rows while the bytes on
	// disk are last-write-wins.
	Path string `gorm:"size:1024;index" json:"path"`

	Size           int64     `json:"size"`
	IsDownloadable bool      `gorm:"default:true" json:"is_downloadable"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
