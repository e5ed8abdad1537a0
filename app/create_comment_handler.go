package app

import (
	"context"
	"database/sql"
	"errors"

	"reviews/domain"
	"reviews/pkg/events"
	"reviews/pkg/httperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreateCommentHandler struct {
	repository     Repository
	eventPublisher events.Publisher
}

func NewCreateCommentHandler(repository Repository, eventPublisher events.Publisher) *CreateCommentHandler {
	return &CreateCommentHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
	}
}

// Username and Body stay untyped until the presence/type ladder has run, so a
// number or boolean in the JSON body is reported as a type problem rather than
// a decode failure.
type CreateCommentRequest struct {
	ReviewID string `params:"review_id"`
	Username any    `json:"username"`
	Body     any    `json:"body"`
}

type CreateCommentResponse struct {
	Comment domain.Comment `json:"comment"`
}

func (CreateCommentResponse) StatusCode() int {
	return fiber.StatusCreated
}

type commentInput struct {
	Author string `validate:"required"`
	Body   string `validate:"required"`
}

func (c *CreateCommentHandler) Handle(ctx context.Context, req *CreateCommentRequest) (*CreateCommentResponse, error) {
	id, herr := parseReviewID(req.ReviewID, "comments.create.invalid_id")
	if herr != nil {
		return nil, herr
	}

	if _, err := c.repository.GetReview(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reviewNotFound("comments.create.review_not_found", id)
		}

		return nil, httperror.InternalServerError("comments.create.review_failed", "Failed to retrieve review", nil)
	}

	input, herr := validateCommentBody(req)
	if herr != nil {
		return nil, herr
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(input); err != nil {
		return nil, httperror.BadRequest(
			"comments.create.validation_failed",
			"Bad Request",
			err.Error(),
		)
	}

	comment, err := c.repository.CreateComment(ctx, id, input.Author, input.Body)
	if err != nil {
		return nil, httperror.InternalServerError("comments.create.failed", "Failed to create comment", nil)
	}

	c.publishEvent(ctx, comment)

	return &CreateCommentResponse{
		Comment: comment,
	}, nil
}

// validateCommentBody runs the presence checks for both fields before the type
// checks, username ahead of body in each pass.
func validateCommentBody(req *CreateCommentRequest) (*commentInput, *httperror.Error) {
	if req.Username == nil {
		return nil, httperror.BadRequest(
			"comments.create.missing_username",
			"Bad Request: Missing username property",
			nil,
		)
	}

	if req.Body == nil {
		return nil, httperror.BadRequest(
			"comments.create.missing_body",
			"Bad Request: Missing body property",
			nil,
		)
	}

	username, ok := req.Username.(string)
	if !ok {
		return nil, httperror.BadRequest(
			"comments.create.invalid_username",
			"Bad Request: Incorrect data type on username",
			nil,
		)
	}

	body, ok := req.Body.(string)
	if !ok {
		return nil, httperror.BadRequest(
			"comments.create.invalid_body",
			"Bad Request: Incorrect data type on body",
			nil,
		)
	}

	return &commentInput{Author: username, Body: body}, nil
}

func (c *CreateCommentHandler) publishEvent(ctx context.Context, comment domain.Comment) {
	if c.eventPublisher == nil {
		return
	}

	eventPayload := events.ReviewCommentCreatedPayload{
		CommentID: comment.CommentID,
		ReviewID:  comment.ReviewID,
		Author:    comment.Author,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}

	traceID, _ := ctx.Value("TraceID").(string)
	if traceID == "" {
		traceID = events.GenerateTraceID()
	}

	headers := events.Headers{
		TraceID:       traceID,
		CorrelationID: events.GenerateCorrelationID(),
		Service:       "reviews",
	}

	event := events.NewEvent(
		events.ReviewCommentCreatedEvent,
		events.EventVersionV1,
		eventPayload,
		headers,
	)

	if err := c.eventPublisher.Publish(ctx, events.ReviewExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish review.comment.created event",
			zap.Int("commentId", comment.CommentID),
			zap.Error(err),
		)
	}
}
