package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("lock not acquired")

// releaseScript 只删除自己持有的锁 (Compare-And-Delete)
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker 基于 Redis SET NX 的分布式锁
// 用于多个进程同时启动时串行化 Bucket 的创建
type RedisLocker struct {
	client   *redis.Client
	ttl      time.Duration
	interval time.Duration
}

type Config struct {
	RedisURL string        // 标准连接字符串: redis://<user>:<password>@<host>:<port>/<db>
	TTL      time.Duration // 锁的过期时间，防止持有者崩溃后死锁
	Interval time.Duration // 抢锁失败后的轮询间隔
}

func NewRedisLocker(cfg Config) (*RedisLocker, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// Fail-fast 连接检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newWithClient(client, cfg), nil
}

func newWithClient(client *redis.Client, cfg Config) *RedisLocker {
	l := &RedisLocker{
		client:   client,
		ttl:      cfg.TTL,
		interval: cfg.Interval,
	}
	if l.ttl <= 0 {
		l.ttl = 30 * time.Second
	}
	if l.interval <= 0 {
		l.interval = 100 * time.Millisecond
	}
	return l
}

// lockKey 生成 Redis Key，添加前缀防止冲突
func (l *RedisLocker) lockKey(name string) string {
	return "fs:lock:" + name
}

// Lock 阻塞直到拿到锁或 ctx 结束
func (l *RedisLocker) Lock(ctx context.Context, name string) (func(), error) {
	key := l.lockKey(name)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", ErrLockNotAcquired, key, ctx.Err())
		case <-time.After(l.interval):
		}
	}
}

// release 使用独立的 ctx，上层 ctx 取消了也要尽量释放
// 释放失败不影响主流程，锁会在 TTL 后自动过期
func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		slog.Warn("failed to release lock", slog.String("key", key), slog.Any("err", err))
	}
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
