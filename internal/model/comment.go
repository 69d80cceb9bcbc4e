package model

import "time"

// Comment is a node in a recipe's comment tree. Replies stay nested; the
// client never flattens them.
type Comment struct {
	ID         int64     `json:"id"`
	Author     User      `json:"author"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	Parent     *int64    `json:"parent,omitempty"`
	Replies    []Comment `json:"replies"`
	CreatedAt  time.Time `json:"created_at"`
}
