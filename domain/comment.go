package domain

import "time"

type Comment struct {
	CommentID int       `json:"comment_id" db:"comment_id"`
	ReviewID  int       `json:"review_id" db:"review_id"`
	Author    string    `json:"author" db:"author"`
	Body      string    `json:"body" db:"body"`
	Votes     int       `json:"votes" db:"votes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
