package model

import "time"

// Link pairs a destination with the secret that authorizes resolving it.
// The secret is assigned once at issuance and never leaves the store through
// any read path; only the issuance response carries it.
type Link struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Link      string    `json:"link" gorm:"type:text;not null"`
	Secret    string    `json:"-" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
