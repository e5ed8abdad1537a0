package app

import (
	"context"
	"reviews/domain"
)

type Repository interface {
	Close() error
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetReviews(ctx context.Context) ([]domain.Review, error)
	GetReview(ctx context.Context, id int) (domain.Review, error)
	GetCommentsByReviewID(ctx context.Context, reviewID int) ([]domain.Comment, error)
	CreateComment(ctx context.Context, reviewID int, author, body string) (domain.Comment, error)
	UpdateReviewImage(ctx context.Context, reviewID int, imageURL string) error
}
