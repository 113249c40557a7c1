package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

// Client wraps Redis operations for the report history.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration. An empty URL disables the history.
type Config struct {
	URL         string        `yaml:"url"`
	Password    string        `yaml:"password"`
	HistorySize int           `yaml:"history_size"`
	TTL         time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis URL was configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key helpers
func latestKey(node string) string {
	return fmt.Sprintf("blockpulse:%s:latest", node)
}

func historyKey(node string) string {
	return fmt.Sprintf("blockpulse:%s:history", node)
}

// SaveReport stores rep as the latest report for node and prepends it to the
// node's history, which is capped at size entries. Both keys expire after ttl.
func (c *Client) SaveReport(
	ctx context.Context,
	node string,
	rep domain.Report,
	size int,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	hkey := historyKey(node)
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, latestKey(node), data, ttl)
	pipe.LPush(ctx, hkey, data)
	if size > 0 {
		pipe.LTrim(ctx, hkey, 0, int64(size-1))
	}
	if ttl > 0 {
		pipe.Expire(ctx, hkey, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save report failed: %w", err)
	}
	return nil
}

// LatestReport returns the most recently stored report for node.
func (c *Client) LatestReport(ctx context.Context, node string) (domain.Report, bool, error) {
	data, err := c.rdb.Get(ctx, latestKey(node)).Bytes()
	if err == redis.Nil {
		return domain.Report{}, false, nil
	}
	if err != nil {
		return domain.Report{}, false, fmt.Errorf("get latest report failed: %w", err)
	}

	var rep domain.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return domain.Report{}, false, fmt.Errorf("decode latest report: %w", err)
	}
	return rep, true, nil
}

// History returns up to limit reports for node, newest first.
func (c *Client) History(ctx context.Context, node string, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		return nil, nil
	}

	items, err := c.rdb.LRange(ctx, historyKey(node), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange failed: %w", err)
	}

	return decodeReports(items)
}

func decodeReports(items []string) ([]domain.Report, error) {
	reports := make([]domain.Report, 0, len(items))
	for _, item := range items {
		var rep domain.Report
		if err := json.Unmarshal([]byte(item), &rep); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
