package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-lobby/internal/entity"
)

const (
	recentResultsKey = "games:recent"
	resultStatsKey   = "games:stats"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	Recent(ctx context.Context, limit int) ([]*entity.GameResult, error)
	Stats(ctx context.Context) (map[entity.ResultReason]int64, error)
}

type dbResult struct {
	client      *redis.Client
	historySize int64
	ttl         time.Duration
}

// NewResultRepository - keeps the last historySize results; both keys expire ttl after the last write.
func NewResultRepository(client *redis.Client, historySize int, ttl time.Duration) ResultRepository {
	return &dbResult{
		client:      client,
		historySize: int64(historySize),
		ttl:         ttl,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal game result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, recentResultsKey, resultJSON)
		pipe.LTrim(ctx, recentResultsKey, 0, that.historySize-1)
		pipe.HIncrBy(ctx, resultStatsKey, string(result.Reason), 1)

		if that.ttl > 0 {
			pipe.Expire(ctx, recentResultsKey, that.ttl)
			pipe.Expire(ctx, resultStatsKey, that.ttl)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game result: %w", err)
	}

	return nil
}

func (that *dbResult) Recent(ctx context.Context, limit int) ([]*entity.GameResult, error) {
	if limit <= 0 {
		return []*entity.GameResult{}, nil
	}

	response, err := that.client.LRange(ctx, recentResultsKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	results := make([]*entity.GameResult, 0, len(response))
	for _, raw := range response {
		var result entity.GameResult
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game result: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}

func (that *dbResult) Stats(ctx context.Context) (map[entity.ResultReason]int64, error) {
	response, err := that.client.HGetAll(ctx, resultStatsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get result stats: %w", err)
	}

	stats := make(map[entity.ResultReason]int64, len(response))
	for reason, raw := range response {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid counter %q for %s: %w", raw, reason, err)
		}

		stats[entity.ResultReason(reason)] = count
	}

	return stats, nil
}
