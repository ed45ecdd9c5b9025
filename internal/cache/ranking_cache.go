package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RankingCache handles Redis ZSET operations for facility rankings.
// Each assessment keeps one sorted set of facilities scored by their
// latest completed percentage.
type RankingCache interface {
	UpdateScore(ctx context.Context, assessmentID, facility string, percentage float64) error
	GetTop(ctx context.Context, assessmentID string, limit int) ([]RankingEntry, error)
	GetRank(ctx context.Context, assessmentID, facility string) (int64, error)
}

// RankingEntry represents a single ranking entry
type RankingEntry struct {
	Facility   string  `json:"facility"`
	Percentage float64 `json:"percentage"`
	Rank       int     `json:"rank"`
}

type rankingCache struct {
	client *redis.Client
}

// NewRankingCache creates a new ranking cache
func NewRankingCache(client *redis.Client) RankingCache {
	return &rankingCache{
		client: client,
	}
}

func (c *rankingCache) key(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:ranking", assessmentID)
}

func (c *rankingCache) UpdateScore(ctx context.Context, assessmentID, facility string, percentage float64) error {
	return c.client.ZAdd(ctx, c.key(assessmentID), redis.Z{
		Score:  percentage,
		Member: facility,
	}).Err()
}

func (c *rankingCache) GetTop(ctx context.Context, assessmentID string, limit int) ([]RankingEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(assessmentID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, len(results))
	for i, z := range results {
		entries[i] = RankingEntry{
			Facility:   z.Member.(string),
			Percentage: z.Score,
			Rank:       i + 1,
		}
	}
	return entries, nil
}

func (c *rankingCache) GetRank(ctx context.Context, assessmentID, facility string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(assessmentID), facility).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
