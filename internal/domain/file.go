package domain

import "time"

type File struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       *string    `json:"name,omitempty"`
	MimeType   string     `json:"mimetype"`
	Size       int64      `json:"size"`
	CreateDate time.Time  `json:"create_date"`
	DeleteDate *time.Time `json:"delete_date,omitempty"`
}
