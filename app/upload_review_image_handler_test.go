package app

import (
	"context"
	"database/sql"
	"testing"

	"reviews/domain"
	"reviews/pkg/config"
	"reviews/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadReviewImageHandler_Guards(t *testing.T) {
	t.Run("non_numeric_id_is_bad_request", func(t *testing.T) {
		handler := NewUploadReviewImageHandler(&mockRepository{}, nil, &config.AppConfig{}, nil)

		_, err := handler.Handle(context.Background(), &UploadReviewImageRequest{ReviewID: "abc"})

		var httpErr *httperror.Error
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, fiber.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "Bad Request", httpErr.Message)
	})

	t.Run("missing_review_is_not_found", func(t *testing.T) {
		repo := &mockRepository{
			GetReviewFn: func(ctx context.Context, id int) (domain.Review, error) {
				return domain.Review{}, sql.ErrNoRows
			},
		}
		handler := NewUploadReviewImageHandler(repo, nil, &config.AppConfig{}, nil)

		_, err := handler.Handle(context.Background(), &UploadReviewImageRequest{ReviewID: "100"})

		var httpErr *httperror.Error
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, fiber.StatusNotFound, httpErr.Status)
		assert.Equal(t, "Review ID: 100 Not Found", httpErr.Message)
	})

	t.Run("missing_fiber_context_is_internal_error", func(t *testing.T) {
		repo := &mockRepository{
			GetReviewFn: func(ctx context.Context, id int) (domain.Review, error) {
				return domain.Review{ReviewID: id}, nil
			},
		}
		handler := NewUploadReviewImageHandler(repo, nil, &config.AppConfig{}, nil)

		_, err := handler.Handle(context.Background(), &UploadReviewImageRequest{ReviewID: "1"})

		var httpErr *httperror.Error
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, fiber.StatusInternalServerError, httpErr.Status)
	})
}

func TestExtensionForContentType(t *testing.T) {
	assert.Equal(t, ".png", extensionForContentType("image/png"))
	assert.Equal(t, ".jpg", extensionForContentType("image/jpeg"))
	assert.Equal(t, ".jpg", extensionForContentType("image/jpg"))
}
