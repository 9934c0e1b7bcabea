package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(userID string) string
}

// snapshot is the cart payload persisted in Redis, one entry per game.
type snapshot struct {
	Items []snapshotItem `json:"items"`
}

type snapshotItem struct {
	GameID     uint    `json:"game_id"`
	Title      string  `json:"title"`
	CoverImage string  `json:"cover_image"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

// Store reads and writes per-user cart snapshots. A missing or corrupt
// snapshot is treated as an empty cart, never an error.
type Store struct {
	redis snapshotStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewStore builds a cart store over the shared Redis client.
func NewStore(redis snapshotStore, keyer cartKeyer, ttl time.Duration) *Store {
	return &Store{redis: redis, keyer: keyer, ttl: ttl}
}

func (s *Store) load(ctx context.Context, userID uint) snapshot {
	raw, err := s.redis.Get(ctx, s.key(userID))
	if err != nil {
		return snapshot{}
	}
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return snapshot{}
	}
	return snap
}

func (s *Store) save(ctx context.Context, userID uint, snap snapshot) error {
	if len(snap.Items) == 0 {
		return s.clear(ctx, userID)
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.key(userID), string(payload), s.ttl)
}

func (s *Store) clear(ctx context.Context, userID uint) error {
	err := s.redis.Del(ctx, s.key(userID))
	if err != nil && !errors.Is(err, redislib.Nil) {
		return err
	}
	return nil
}

func (s *Store) key(userID uint) string {
	return s.keyer.CartKey(strconv.FormatUint(uint64(userID), 10))
}
