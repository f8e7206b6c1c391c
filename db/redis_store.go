package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

const (
	runsKey      = "runs" // Set: stores all run IDs
	runKeyPrefix = "run:" // String prefix: run:{id} -> JSON blob of the run
)

// RedisStore caches distribution runs in Redis so downloads and seed reuse
// survive a process restart.
type RedisStore struct {
	Client *redis.Client
	Ctx    context.Context // Base context
}

// NewRedisStore creates a new RedisStore instance.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		Client: client,
		Ctx:    context.Background(),
	}
}

func getRunKey(id string) string {
	return runKeyPrefix + id
}

// SaveRun stores the run as a JSON blob and registers its ID in the runs set.
func (s *RedisStore) SaveRun(run *Run) error {
	if run.ID == "" {
		return errors.New("run ID cannot be empty")
	}
	blob, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", run.ID, err)
	}

	pipe := s.Client.Pipeline()
	pipe.SAdd(s.Ctx, runsKey, run.ID)
	pipe.Set(s.Ctx, getRunKey(run.ID), blob, 0)

	if _, err := pipe.Exec(s.Ctx); err != nil {
		log.Printf("Error saving run %s: %v", run.ID, err)
		return fmt.Errorf("failed to save run to Redis: %w", err)
	}
	return nil
}

// GetRun retrieves a run by its ID. Returns (nil, nil) when the ID is unknown.
func (s *RedisStore) GetRun(id string) (*Run, error) {
	blob, err := s.Client.Get(s.Ctx, getRunKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not found is not an error in API context
		}
		log.Printf("Error getting run %s: %v", id, err)
		return nil, fmt.Errorf("failed to get run from Redis: %w", err)
	}

	var run Run
	if err := json.Unmarshal([]byte(blob), &run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &run, nil
}

// ListRunIDs retrieves the IDs of every stored run.
func (s *RedisStore) ListRunIDs() ([]string, error) {
	ids, err := s.Client.SMembers(s.Ctx, runsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		log.Printf("Error getting run IDs: %v", err)
		return nil, fmt.Errorf("failed to get run IDs from Redis: %w", err)
	}
	return ids, nil
}

// InitializeRedisClient creates and tests a Redis client connection. The
// address comes from REDIS_ADDR when set.
func InitializeRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}

	log.Printf("Successfully connected to Redis at %s", addr)
	return rdb
}
