package model

// Scan is one immutable audit entry for a resolution attempt. Rows are
// append-only: nothing in the application updates or deletes them.
//
// CodeID intentionally carries whatever id the attempt targeted, whether or
// not a matching Link exists.
type Scan struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	CodeID  int64  `json:"code_id" gorm:"not null;index"`
	Success bool   `json:"success" gorm:"not null"`
	Date    string `json:"date" gorm:"type:text;not null"`
}
