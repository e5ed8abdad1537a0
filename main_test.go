package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reviews/app"
	"reviews/domain"
	"reviews/pkg/config"
	"reviews/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededRepository serves a small fixed dataset so the HTTP surface can be
// exercised end to end without Postgres.
type seededRepository struct {
	categories []domain.Category
	reviews    []domain.Review
	comments   map[int][]domain.Comment
	nextID     int
}

func newSeededRepository() *seededRepository {
	base := time.Date(2021, time.January, 25, 11, 16, 54, 0, time.UTC)

	return &seededRepository{
		categories: []domain.Category{
			{Slug: "dexterity", Description: "Games involving physical skill"},
			{Slug: "social deduction", Description: "Games in which players aim to uncover each other's hidden role"},
		},
		reviews: []domain.Review{
			{ReviewID: 3, Owner: "bainesface", Title: "Ultimate Werewolf", ReviewBody: "We couldn't find the werewolf!", Designer: "Akihisa Okui", Category: "social deduction", Votes: 5, CreatedAt: base, CommentCount: 3},
			{ReviewID: 2, Owner: "philippaclaire9", Title: "Jenga", ReviewBody: "Fiddly fun for all the family", Designer: "Leslie Scott", Category: "dexterity", Votes: 5, CreatedAt: base.Add(-24 * time.Hour), CommentCount: 3},
			{ReviewID: 1, Owner: "mallionaire", Title: "Agricola", ReviewBody: "Farmyard fun!", Designer: "Uwe Rosenberg", Category: "euro game", Votes: 1, CreatedAt: base.Add(-48 * time.Hour), CommentCount: 0},
		},
		comments: map[int][]domain.Comment{
			2: {
				{CommentID: 5, ReviewID: 2, Author: "mallionaire", Body: "Now this is a story all about how...", Votes: 13, CreatedAt: base},
				{CommentID: 1, ReviewID: 2, Author: "bainesface", Body: "I loved this game too!", Votes: 16, CreatedAt: base.Add(-time.Hour)},
			},
		},
		nextID: 7,
	}
}

func (s *seededRepository) Close() error { return nil }

func (s *seededRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *seededRepository) GetReviews(ctx context.Context) ([]domain.Review, error) {
	return s.reviews, nil
}

func (s *seededRepository) GetReview(ctx context.Context, id int) (domain.Review, error) {
	for _, r := range s.reviews {
		if r.ReviewID == id {
			return r, nil
		}
	}
	return domain.Review{}, sql.ErrNoRows
}

func (s *seededRepository) GetCommentsByReviewID(ctx context.Context, reviewID int) ([]domain.Comment, error) {
	comments, ok := s.comments[reviewID]
	if !ok {
		return []domain.Comment{}, nil
	}
	return comments, nil
}

func (s *seededRepository) CreateComment(ctx context.Context, reviewID int, author, body string) (domain.Comment, error) {
	comment := domain.Comment{
		CommentID: s.nextID,
		ReviewID:  reviewID,
		Author:    author,
		Body:      body,
		Votes:     0,
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.comments[reviewID] = append([]domain.Comment{comment}, s.comments[reviewID]...)
	return comment, nil
}

func (s *seededRepository) UpdateReviewImage(ctx context.Context, reviewID int, imageURL string) error {
	return nil
}

var _ app.Repository = (*seededRepository)(nil)

type recordingPublisher struct {
	published []*events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *recordingPublisher) {
	t.Helper()
	publisher := &recordingPublisher{}
	fiberApp := buildApp(&config.AppConfig{}, newSeededRepository(), publisher, nil)
	return fiberApp, publisher
}

func doRequest(t *testing.T, fiberApp *fiber.App, method, target string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return resp, decoded
}

func messageOf(t *testing.T, decoded map[string]json.RawMessage) string {
	t.Helper()
	var message string
	require.NoError(t, json.Unmarshal(decoded["message"], &message))
	return message
}

func TestGetCategories(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []domain.Category
	require.NoError(t, json.Unmarshal(decoded["categories"], &categories))
	require.Len(t, categories, 2)
	assert.Equal(t, "dexterity", categories[0].Slug)
}

func TestGetReviews(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/reviews", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var reviews []domain.Review
	require.NoError(t, json.Unmarshal(decoded["reviews"], &reviews))
	require.Len(t, reviews, 3)

	for i := 1; i < len(reviews); i++ {
		assert.False(t, reviews[i].CreatedAt.After(reviews[i-1].CreatedAt),
			"reviews must be ordered by created_at descending")
	}

	// comment_count must be present and numeric on every entry
	var entries []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["reviews"], &entries))
	for _, entry := range entries {
		var count int
		require.NoError(t, json.Unmarshal(entry["comment_count"], &count))
	}
}

func TestGetReviewByID(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	t.Run("existing_ids_round_trip", func(t *testing.T) {
		for _, id := range []int{1, 2, 3} {
			resp, decoded := doRequest(t, fiberApp, http.MethodGet, fmt.Sprintf("/api/reviews/%d", id), nil)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var review domain.Review
			require.NoError(t, json.Unmarshal(decoded["review"], &review))
			assert.Equal(t, id, review.ReviewID)
			assert.NotEmpty(t, review.ReviewBody)
		}
	})

	t.Run("non_numeric_id", func(t *testing.T) {
		resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/reviews/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Bad Request", messageOf(t, decoded))
	})

	t.Run("missing_id", func(t *testing.T) {
		resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/reviews/100", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Review ID: 100 Not Found", messageOf(t, decoded))
	})
}

func TestGetCommentsForReview(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	t.Run("returns_comments_newest_first", func(t *testing.T) {
		resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/reviews/2/comments", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []domain.Comment
		require.NoError(t, json.Unmarshal(decoded["comments"], &comments))
		require.Len(t, comments, 2)
		assert.False(t, comments[1].CreatedAt.After(comments[0].CreatedAt))
	})

	t.Run("zero_comments_is_empty_array", func(t *testing.T) {
		resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/reviews/1/comments", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "[]", string(decoded["comments"]))
	})

	t.Run("non_numeric_id", func(t *testing.T) {
		resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/reviews/abc/comments", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Bad Request", messageOf(t, decoded))
	})

	t.Run("missing_review", func(t *testing.T) {
		resp, decoded := doRequest(t, fiberApp, http.MethodGet, "/api/reviews/100/comments", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Review ID: 100 Not Found", messageOf(t, decoded))
	})
}

func TestCreateComment(t *testing.T) {
	t.Run("valid_comment_is_created", func(t *testing.T) {
		fiberApp, publisher := newTestApp(t)

		resp, decoded := doRequest(t, fiberApp, http.MethodPost, "/api/reviews/1/comments", map[string]any{
			"username": "mallionaire",
			"body":     "This is a test!",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment domain.Comment
		require.NoError(t, json.Unmarshal(decoded["comment"], &comment))
		assert.Equal(t, "mallionaire", comment.Author)
		assert.Equal(t, "This is a test!", comment.Body)
		assert.Equal(t, 1, comment.ReviewID)
		assert.Equal(t, 0, comment.Votes)
		assert.Equal(t, 7, comment.CommentID)

		require.Len(t, publisher.published, 1)
	})

	invalidCases := []struct {
		name           string
		target         string
		body           map[string]any
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "non_numeric_review_id",
			target:         "/api/reviews/abc/comments",
			body:           map[string]any{"username": "mallionaire", "body": "hi"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Bad Request",
		},
		{
			name:           "missing_review",
			target:         "/api/reviews/100/comments",
			body:           map[string]any{"username": "mallionaire", "body": "hi"},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Review ID: 100 Not Found",
		},
		{
			name:           "missing_username",
			target:         "/api/reviews/1/comments",
			body:           map[string]any{"body": "hi"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Bad Request: Missing username property",
		},
		{
			name:           "missing_body",
			target:         "/api/reviews/1/comments",
			body:           map[string]any{"username": "mallionaire"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Bad Request: Missing body property",
		},
		{
			name:           "non_string_username",
			target:         "/api/reviews/1/comments",
			body:           map[string]any{"username": 100, "body": "hi"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Bad Request: Incorrect data type on username",
		},
		{
			name:           "non_string_body",
			target:         "/api/reviews/1/comments",
			body:           map[string]any{"username": "mallionaire", "body": true},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Bad Request: Incorrect data type on body",
		},
	}

	for _, tt := range invalidCases {
		t.Run(tt.name, func(t *testing.T) {
			fiberApp, publisher := newTestApp(t)

			resp, decoded := doRequest(t, fiberApp, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedMsg, messageOf(t, decoded))
			assert.Empty(t, publisher.published)
		})
	}
}

func TestUnmatchedPath(t *testing.T) {
	fiberApp, _ := newTestApp(t)

	for _, target := range []string{"/api/nonsense", "/definitely/not/here"} {
		resp, decoded := doRequest(t, fiberApp, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Path Not Found", messageOf(t, decoded))
	}
}
