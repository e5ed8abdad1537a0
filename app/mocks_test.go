package app

import (
	"context"
	"database/sql"

	"reviews/domain"
	"reviews/pkg/events"
)

// mockRepository implements Repository with overridable function fields.
type mockRepository struct {
	GetCategoriesFn         func(ctx context.Context) ([]domain.Category, error)
	GetReviewsFn            func(ctx context.Context) ([]domain.Review, error)
	GetReviewFn             func(ctx context.Context, id int) (domain.Review, error)
	GetCommentsByReviewIDFn func(ctx context.Context, reviewID int) ([]domain.Comment, error)
	CreateCommentFn         func(ctx context.Context, reviewID int, author, body string) (domain.Comment, error)
	UpdateReviewImageFn     func(ctx context.Context, reviewID int, imageURL string) error
}

func (m *mockRepository) Close() error { return nil }

func (m *mockRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	if m.GetCategoriesFn != nil {
		return m.GetCategoriesFn(ctx)
	}
	return []domain.Category{}, nil
}

func (m *mockRepository) GetReviews(ctx context.Context) ([]domain.Review, error) {
	if m.GetReviewsFn != nil {
		return m.GetReviewsFn(ctx)
	}
	return []domain.Review{}, nil
}

func (m *mockRepository) GetReview(ctx context.Context, id int) (domain.Review, error) {
	if m.GetReviewFn != nil {
		return m.GetReviewFn(ctx, id)
	}
	return domain.Review{}, sql.ErrNoRows
}

func (m *mockRepository) GetCommentsByReviewID(ctx context.Context, reviewID int) ([]domain.Comment, error) {
	if m.GetCommentsByReviewIDFn != nil {
		return m.GetCommentsByReviewIDFn(ctx, reviewID)
	}
	return []domain.Comment{}, nil
}

func (m *mockRepository) CreateComment(ctx context.Context, reviewID int, author, body string) (domain.Comment, error) {
	if m.CreateCommentFn != nil {
		return m.CreateCommentFn(ctx, reviewID, author, body)
	}
	return domain.Comment{}, nil
}

func (m *mockRepository) UpdateReviewImage(ctx context.Context, reviewID int, imageURL string) error {
	if m.UpdateReviewImageFn != nil {
		return m.UpdateReviewImageFn(ctx, reviewID, imageURL)
	}
	return nil
}

// mockPublisher records published events.
type mockPublisher struct {
	published []*events.Event
	failWith  error
}

func (m *mockPublisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }
