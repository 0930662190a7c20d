package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/movie_catalog/internal/domain"
)

// RedisCache caches movies and their review lists. Every review or movie
// mutation invalidates both keys for the affected movie.
type RedisCache struct {
	client         *redis.Client
	movieTTL       time.Duration
	reviewsListTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, movieTTL, reviewsListTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:         client,
		movieTTL:       movieTTL,
		reviewsListTTL: reviewsListTTL,
	}
}

func (c *RedisCache) movieKey(id uuid.UUID) string {
	return fmt.Sprintf("movie:%s", id.String())
}

func (c *RedisCache) reviewsListKey(movieID uuid.UUID) string {
	return fmt.Sprintf("movie:%s:reviews", movieID.String())
}

// GetMovie retrieves a cached movie
func (c *RedisCache) GetMovie(ctx context.Context, id uuid.UUID) (*domain.Movie, error) {
	val, err := c.client.Get(ctx, c.movieKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrMovieNotFound
		}
		return nil, err
	}

	var movie domain.Movie
	if err := json.Unmarshal([]byte(val), &movie); err != nil {
		return nil, err
	}

	return &movie, nil
}

// SetMovie stores a movie in cache
func (c *RedisCache) SetMovie(ctx context.Context, movie *domain.Movie) error {
	data, err := json.Marshal(movie)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.movieKey(movie.ID), data, c.movieTTL).Err()
}

// GetReviewsList retrieves the cached review list for a movie
func (c *RedisCache) GetReviewsList(ctx context.Context, movieID uuid.UUID) ([]*domain.Review, error) {
	val, err := c.client.Get(ctx, c.reviewsListKey(movieID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}

	var reviews []*domain.Review
	if err := json.Unmarshal([]byte(val), &reviews); err != nil {
		return nil, err
	}

	return reviews, nil
}

// SetReviewsList stores a movie's review list in cache
func (c *RedisCache) SetReviewsList(ctx context.Context, movieID uuid.UUID, reviews []*domain.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.reviewsListKey(movieID), data, c.reviewsListTTL).Err()
}

// InvalidateMovie removes all cache entries for a movie
func (c *RedisCache) InvalidateMovie(ctx context.Context, movieID uuid.UUID) error {
	err := c.client.Unlink(ctx, c.movieKey(movieID), c.reviewsListKey(movieID)).Err()
	if err != nil && err != redis.Nil {
		return err
	}
	return nil
}
