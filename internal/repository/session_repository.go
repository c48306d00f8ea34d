package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"quiz_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

// SessionRepository 基于 redis 的会话存储，key 均带 TTL
type SessionRepository struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{Redis: rdb, TTL: ttl}
}

func sessionKey(sid string) string {
	return sessionKeyPrefix + sid
}

func pinnedKey(sid string) string {
	return sessionKeyPrefix + sid + ":quiz_questions"
}

func (r *SessionRepository) Create(ctx context.Context, sid string, userID uint) error {
	return r.Redis.Set(ctx, sessionKey(sid), userID, r.TTL).Err()
}

func (r *SessionRepository) UserID(ctx context.Context, sid string) (uint, error) {
	val, err := r.Redis.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, util.ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (r *SessionRepository) Exists(ctx context.Context, sid string) (bool, error) {
	n, err := r.Redis.Exists(ctx, sessionKey(sid)).Result()
	return n > 0, err
}

// Destroy 删除会话及其下所有数据
func (r *SessionRepository) Destroy(ctx context.Context, sid string) error {
	return r.Redis.Del(ctx, sessionKey(sid), pinnedKey(sid)).Err()
}

// PinQuestions 覆盖当前会话的题目集合
func (r *SessionRepository) PinQuestions(ctx context.Context, sid string, ids []uint) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, pinnedKey(sid), data, r.TTL).Err()
}

func (r *SessionRepository) PinnedQuestions(ctx context.Context, sid string) ([]uint, error) {
	data, err := r.Redis.Get(ctx, pinnedKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []uint{}, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []uint
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SessionRepository) ClearPinned(ctx context.Context, sid string) error {
	return r.Redis.Del(ctx, pinnedKey(sid)).Err()
}
