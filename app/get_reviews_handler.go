package app

import (
	"context"

	"reviews/domain"
	"reviews/pkg/httperror"
)

type GetReviewsHandler struct {
	repository Repository
}

func NewGetReviewsHandler(repository Repository) *GetReviewsHandler {
	return &GetReviewsHandler{
		repository: repository,
	}
}

type GetReviewsRequest struct {
}

type GetReviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

func (h GetReviewsHandler) Handle(ctx context.Context, req *GetReviewsRequest) (*GetReviewsResponse, error) {
	reviews, err := h.repository.GetReviews(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"review.index.failed",
			"Failed to retrieve reviews",
			nil,
		)
	}

	return &GetReviewsResponse{
		Reviews: reviews,
	}, nil
}
