package app

import (
	"context"
	"database/sql"
	"errors"

	"reviews/domain"
	"reviews/pkg/httperror"
)

type GetReviewHandler struct {
	repository Repository
}

func NewGetReviewHandler(repository Repository) *GetReviewHandler {
	return &GetReviewHandler{
		repository: repository,
	}
}

type GetReviewRequest struct {
	ReviewID string `params:"review_id"`
}

type GetReviewResponse struct {
	Review domain.Review `json:"review"`
}

func (h GetReviewHandler) Handle(ctx context.Context, req *GetReviewRequest) (*GetReviewResponse, error) {
	id, herr := parseReviewID(req.ReviewID, "review.show.invalid_id")
	if herr != nil {
		return nil, herr
	}

	review, err := h.repository.GetReview(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reviewNotFound("review.show.not_found", id)
		}

		return nil, httperror.InternalServerError(
			"review.show.failed",
			"Failed to retrieve review",
			nil,
		)
	}

	return &GetReviewResponse{
		Review: review,
	}, nil
}
