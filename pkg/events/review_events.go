package events

import "time"

// Domain constants
const (
	ReviewDomain   = "review"
	ReviewExchange = "reviews.review"
)

// Event names
const (
	ReviewCommentCreatedEvent = "review.comment.created"
	ReviewImageUploadedEvent  = "review.image.uploaded"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

// ReviewCommentCreatedPayload represents the payload for review.comment.created
type ReviewCommentCreatedPayload struct {
	CommentID int       `json:"commentId"`
	ReviewID  int       `json:"reviewId"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewImageUploadedPayload represents the payload for review.image.uploaded
type ReviewImageUploadedPayload struct {
	ReviewID   int       `json:"reviewId"`
	ImageURL   string    `json:"imageUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}
