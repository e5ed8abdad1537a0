package postgres

import (
	"context"
	"fmt"
	"time"

	"reviews/domain"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(host, database, user, password, port string) *PgRepository {
	db := sqlx.MustConnect("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, database,
	))

	// Connection pool configuration
	// With 3 replicas × 15 conns = 45 total connections (safer for default PG max_connections=100)
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]interface{} {
	stats := r.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

func (r *PgRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT slug, description FROM categories ORDER BY slug ASC`

	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

const reviewColumns = `
	r.review_id, r.owner, r.title, r.review_body, r.designer, r.review_img_url,
	r.category, r.votes, r.created_at,
	COUNT(c.comment_id)::int AS comment_count`

func (r *PgRepository) GetReviews(ctx context.Context) ([]domain.Review, error) {
	reviews := make([]domain.Review, 0)
	query := `SELECT` + reviewColumns + `
		FROM reviews r
		LEFT JOIN comments c ON c.review_id = r.review_id
		GROUP BY r.review_id
		ORDER BY r.created_at DESC`

	err := r.db.SelectContext(ctx, &reviews, query)
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *PgRepository) GetReview(ctx context.Context, id int) (domain.Review, error) {
	var review domain.Review
	query := `SELECT` + reviewColumns + `
		FROM reviews r
		LEFT JOIN comments c ON c.review_id = r.review_id
		WHERE r.review_id = $1
		GROUP BY r.review_id`

	err := r.db.GetContext(ctx, &review, query, id)
	if err != nil {
		return review, err
	}

	return review, nil
}

func (r *PgRepository) GetCommentsByReviewID(ctx context.Context, reviewID int) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	query := `SELECT comment_id, review_id, author, body, votes, created_at
		FROM comments
		WHERE review_id = $1
		ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &comments, query, reviewID)
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *PgRepository) CreateComment(ctx context.Context, reviewID int, author, body string) (domain.Comment, error) {
	var comment domain.Comment
	query := `INSERT INTO comments (review_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING comment_id, review_id, author, body, votes, created_at`

	err := r.db.GetContext(ctx, &comment, query, reviewID, author, body)
	if err != nil {
		return comment, err
	}

	return comment, nil
}

func (r *PgRepository) UpdateReviewImage(ctx context.Context, reviewID int, imageURL string) error {
	query := `UPDATE reviews SET review_img_url = $2 WHERE review_id = $1`

	_, err := r.db.ExecContext(ctx, query, reviewID, imageURL)

	return err
}
