package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	historyKeyPrefix = "actions:"

	defaultHistorySize = 50
	defaultHistoryTTL  = 7 * 24 * time.Hour
)

// Store はユーザーごとのアクション履歴を Redis のリストに保存します（新しい順）。
type Store struct {
	rdb  *redis.Client
	size int
	ttl  time.Duration
}

// NewStore は Store を作成します。size 件を超えた古い履歴は切り捨てます。
func NewStore(rdb *redis.Client, size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = defaultHistorySize
	}
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	return &Store{
		rdb:  rdb,
		size: size,
		ttl:  ttl,
	}
}

// Append はイベントを履歴の先頭に追加します。
func (s *Store) Append(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event is nil")
	}
	if event.Username == "" {
		return fmt.Errorf("event.Username is required")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := historyKey(event.Username)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, int64(s.size-1))
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

// Recent は新しい順に最大 limit 件の履歴を返します。
func (s *Store) Recent(ctx context.Context, username string, limit int) ([]Event, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if limit <= 0 || limit > s.size {
		limit = s.size
	}
	items, err := s.rdb.LRange(ctx, historyKey(username), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(items))
	for _, item := range items {
		var event Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("decode action event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func historyKey(username string) string {
	return historyKeyPrefix + username
}
