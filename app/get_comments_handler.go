package app

import (
	"context"
	"database/sql"
	"errors"

	"reviews/domain"
	"reviews/pkg/httperror"

	"golang.org/x/sync/errgroup"
)

type GetCommentsHandler struct {
	repository Repository
}

func NewGetCommentsHandler(repository Repository) *GetCommentsHandler {
	return &GetCommentsHandler{
		repository: repository,
	}
}

type GetCommentsRequest struct {
	ReviewID string `params:"review_id"`
}

type GetCommentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

// Handle fetches the comments and the review itself concurrently. The review
// lookup only guards existence: a review with zero comments is a 200 with an
// empty list, a missing review is a 404 even when stray comments exist.
func (h *GetCommentsHandler) Handle(ctx context.Context, req *GetCommentsRequest) (*GetCommentsResponse, error) {
	id, herr := parseReviewID(req.ReviewID, "comments.index.invalid_id")
	if herr != nil {
		return nil, herr
	}

	var comments []domain.Comment

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		comments, err = h.repository.GetCommentsByReviewID(gctx, id)
		if err != nil {
			return httperror.InternalServerError(
				"comments.index.failed",
				"Failed to retrieve comments",
				nil,
			)
		}
		return nil
	})

	g.Go(func() error {
		_, err := h.repository.GetReview(gctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return reviewNotFound("comments.index.review_not_found", id)
			}

			return httperror.InternalServerError(
				"comments.index.review_failed",
				"Failed to retrieve review",
				nil,
			)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &GetCommentsResponse{
		Comments: comments,
	}, nil
}
