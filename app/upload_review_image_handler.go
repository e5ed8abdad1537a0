package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"reviews/pkg/aws"
	"reviews/pkg/config"
	"reviews/pkg/events"
	"reviews/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UploadReviewImageHandler struct {
	repository     Repository
	bucket         *aws.S3
	appConfig      *config.AppConfig
	eventPublisher events.Publisher
}

func NewUploadReviewImageHandler(repository Repository, bucket *aws.S3, appConfig *config.AppConfig, eventPublisher events.Publisher) *UploadReviewImageHandler {
	return &UploadReviewImageHandler{
		repository:     repository,
		bucket:         bucket,
		appConfig:      appConfig,
		eventPublisher: eventPublisher,
	}
}

type UploadReviewImageRequest struct {
	ReviewID string `params:"review_id"`
}

type UploadReviewImageResponse struct {
	ReviewID int    `json:"review_id"`
	ImageURL string `json:"image_url"`
}

func (h *UploadReviewImageHandler) Handle(ctx context.Context, req *UploadReviewImageRequest) (*UploadReviewImageResponse, error) {
	id, herr := parseReviewID(req.ReviewID, "review_image.upload.invalid_id")
	if herr != nil {
		return nil, herr
	}

	if _, err := h.repository.GetReview(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reviewNotFound("review_image.upload.not_found", id)
		}

		return nil, httperror.InternalServerError("review_image.upload.review_failed", "Failed to retrieve review", nil)
	}

	c, ok := ctx.Value("fiber").(*fiber.Ctx)
	if !ok {
		return nil, httperror.InternalServerError("review_image.upload.no_context", "Fiber context not found", nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, httperror.BadRequest("review_image.upload.missing_file", "Bad Request: Image file is required (use 'image' field)", nil)
	}

	const maxFileSize = 5 * 1024 * 1024
	if file.Size > maxFileSize {
		return nil, httperror.BadRequest("review_image.upload.file_too_large", "Bad Request: File size must not exceed 5MB", nil)
	}

	contentType := file.Header.Get("Content-Type")

	allowedTypes := map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/jpg":  true,
	}
	if !allowedTypes[contentType] {
		return nil, httperror.BadRequest("review_image.upload.invalid_content_type", "Bad Request: Only PNG, JPEG/JPG images are allowed", nil)
	}

	fileReader, err := file.Open()
	if err != nil {
		return nil, httperror.InternalServerError("review_image.upload.file_open_error", "Failed to open uploaded file", nil)
	}
	defer fileReader.Close()

	fileBytes, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, httperror.InternalServerError("review_image.upload.file_read_error", "Failed to read file content", nil)
	}

	key := fmt.Sprintf("reviews/%d/%s%s", id, uuid.New().String(), extensionForContentType(contentType))

	if err := h.bucket.Upload(key, fileBytes); err != nil {
		return nil, httperror.InternalServerError("review_image.upload.store_failed", "Failed to upload image to storage", nil)
	}

	imageURL := h.imageURL(key)

	if err := h.repository.UpdateReviewImage(ctx, id, imageURL); err != nil {
		_ = h.bucket.Delete(key)
		return nil, httperror.InternalServerError("review_image.upload.save_failed", "Failed to save image URL", nil)
	}

	h.publishEvent(ctx, id, imageURL)

	return &UploadReviewImageResponse{
		ReviewID: id,
		ImageURL: imageURL,
	}, nil
}

func (h *UploadReviewImageHandler) imageURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(h.appConfig.AWSEndpoint, "/"), h.appConfig.AWSBucket, key)
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}

func (h *UploadReviewImageHandler) publishEvent(ctx context.Context, reviewID int, imageURL string) {
	if h.eventPublisher == nil {
		return
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
		events.ReviewImageUploadedEvent,
		events.EventVersionV1,
		events.ReviewImageUploadedPayload{
			ReviewID:   reviewID,
			ImageURL:   imageURL,
			UploadedAt: time.Now().UTC(),
		},
		headers,
	)

	if err := h.eventPublisher.Publish(ctx, events.ReviewExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish review.image.uploaded event",
			zap.Int("reviewId", reviewID),
			zap.Error(err),
		)
	}
}
