package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviews/app"
	"reviews/infra/postgres"
	"reviews/infra/rabbitmq"
	"reviews/internal/middleware"
	"reviews/pkg/aws"
	"reviews/pkg/config"
	"reviews/pkg/events"
	"reviews/pkg/httperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// statusCoder lets a response pick its own success status (e.g. 201 on create).
type statusCoder interface {
	StatusCode() int
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Bad Request",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Bad Request",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Bad Request",
				fiber.Map{"error": err.Error()},
			))
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, "fiber", c)

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		if sc, ok := any(res).(statusCoder); ok {
			return c.Status(sc.StatusCode()).JSON(res)
		}

		return c.JSON(res)
	}
}

func buildApp(appConfig *config.AppConfig, repository app.Repository, eventPublisher events.Publisher, bucket *aws.S3) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
	})

	fiberApp.Use(middleware.NewTraceIDMiddleware())

	getCategoriesHandler := app.NewGetCategoriesHandler(repository)
	getReviewsHandler := app.NewGetReviewsHandler(repository)
	getReviewHandler := app.NewGetReviewHandler(repository)
	getCommentsHandler := app.NewGetCommentsHandler(repository)
	createCommentHandler := app.NewCreateCommentHandler(repository, eventPublisher)
	uploadReviewImageHandler := app.NewUploadReviewImageHandler(repository, bucket, appConfig, eventPublisher)

	api := fiberApp.Group("/api")
	api.Get("/categories", handle[app.GetCategoriesRequest, app.GetCategoriesResponse](getCategoriesHandler))
	api.Get("/reviews", handle[app.GetReviewsRequest, app.GetReviewsResponse](getReviewsHandler))
	api.Get("/reviews/:review_id", handle[app.GetReviewRequest, app.GetReviewResponse](getReviewHandler))
	api.Get("/reviews/:review_id/comments", handle[app.GetCommentsRequest, app.GetCommentsResponse](getCommentsHandler))
	api.Post("/reviews/:review_id/comments", handle[app.CreateCommentRequest, app.CreateCommentResponse](createCommentHandler))
	api.Post("/reviews/:review_id/image", handle[app.UploadReviewImageRequest, app.UploadReviewImageResponse](uploadReviewImageHandler))

	// Fixed body for every unmatched route.
	fiberApp.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Path Not Found",
		})
	})

	return fiberApp
}

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	appConfig := config.Read()
	zap.L().Info("app starting...")
	zap.L().Info("app config", zap.Any("appConfig", appConfig))

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
	)
	defer pgRepository.Close()

	var eventPublisher events.Publisher
	if appConfig.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
		if err != nil {
			zap.L().Error("Failed to connect event publisher, events disabled", zap.Error(err))
		} else {
			eventPublisher = publisher
			defer publisher.Close()
		}
	}

	bucket := aws.NewS3Bucket(appConfig)

	fiberApp := buildApp(appConfig, pgRepository, eventPublisher, bucket)

	go func() {
		if err := fiberApp.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(fiberApp)
}

func gracefulShutdown(fiberApp *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	zap.L().Info("Shutting down server...")

	if err := fiberApp.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		// Clients only ever see the message; code and details stay in the logs.
		return c.Status(httpErr.Status).JSON(fiber.Map{
			"message": httpErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber validation error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal Server Error",
	})
}
