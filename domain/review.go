package domain

import "time"

type Review struct {
	ReviewID     int       `json:"review_id" db:"review_id"`
	Owner        string    `json:"owner" db:"owner"`
	Title        string    `json:"title" db:"title"`
	ReviewBody   string    `json:"review_body" db:"review_body"`
	Designer     string    `json:"designer" db:"designer"`
	ReviewImgURL string    `json:"review_img_url" db:"review_img_url"`
	Category     string    `json:"category" db:"category"`
	Votes        int       `json:"votes" db:"votes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Derived at read time from the comments table.
	CommentCount int `json:"comment_count" db:"comment_count"`
}
