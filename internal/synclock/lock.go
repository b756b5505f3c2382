// Package synclock implements the version-meta lock: a Redis-backed mutual
// exclusion so two incremental-sync runs never race against the same
// UmlsMeta.version precondition. Ping-on-construct, context-scoped client;
// the primitive itself is SET NX PX with a Lua compare-and-delete release.
package synclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/envutil"
	"github.com/biolinkgraph/umls-graph-syncer/internal/platform/logger"
)

// ErrHeld is returned by Acquire when another process already holds the lock.
var ErrHeld = errors.New("synclock: version-meta lock is held by another process")

const keyPrefix = "umls-graph-syncer:version-meta-lock"

// releaseScript deletes the key only if its value still matches the token we
// set, so a stale lock whose TTL expired and was re-acquired by someone else
// is never deleted out from under them.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript is the same guard, applied to PEXPIRE instead of DEL.
var extendScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Lock is a held version-meta lock. Stop the heartbeat and release the key
// by calling Release.
type Lock struct {
	rdb   *goredis.Client
	log   *logger.Logger
	key   string
	token string
	ttl   time.Duration

	cancelHeartbeat context.CancelFunc
	heartbeatDone   chan struct{}
}

// Locker acquires and releases the version-meta lock against a Redis
// instance named by REDIS_ADDR.
type Locker struct {
	rdb *goredis.Client
	log *logger.Logger
	ttl time.Duration
}

// NewFromEnv dials Redis using REDIS_ADDR (required) and verifies
// connectivity before returning, failing fast rather than deferring the
// error to the first Acquire call.
func NewFromEnv(log *logger.Logger) (*Locker, error) {
	if log == nil {
		return nil, fmt.Errorf("synclock: logger required")
	}
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("synclock: missing REDIS_ADDR")
	}
	ttl := envutil.Duration("SYNC_LOCK_TTL", 2*time.Minute)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("synclock: redis ping: %w", err)
	}

	return &Locker{
		rdb: rdb,
		log: log.With("component", "SyncLock"),
		ttl: ttl,
	}, nil
}

// Acquire takes the lock for the named sync (the target version V is a
// natural choice) or returns ErrHeld immediately; the lock is not
// blocking/retrying by design, since a sync run that cannot acquire it
// should fail fast rather than queue behind another run. Once acquired, a
// background heartbeat refreshes the TTL every ttl/3 so a sync that runs
// longer than the initial TTL (common for Phase U over a full MRCONSO) does
// not lose the lock mid-run.
func (l *Locker) Acquire(ctx context.Context, name string) (*Lock, error) {
	key := fmt.Sprintf("%s:%s", keyPrefix, name)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("synclock: acquire: %w", err)
	}
	if !ok {
		return nil, ErrHeld
	}

	hbCtx, cancel := context.WithCancel(context.Background())
	lock := &Lock{
		rdb:             l.rdb,
		log:             l.log,
		key:             key,
		token:           token,
		ttl:             l.ttl,
		cancelHeartbeat: cancel,
		heartbeatDone:   make(chan struct{}),
	}
	go lock.heartbeat(hbCtx)
	return lock, nil
}

func (lk *Lock) heartbeat(ctx context.Context) {
	defer close(lk.heartbeatDone)
	interval := lk.ttl / 3
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			extendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			n, err := extendScript.Run(extendCtx, lk.rdb, []string{lk.key}, lk.token, lk.ttl.Milliseconds()).Int()
			cancel()
			if err != nil {
				lk.log.Warn("version-meta lock heartbeat failed", "key", lk.key, "error", err)
				continue
			}
			if n == 0 {
				lk.log.Warn("version-meta lock lost (token mismatch), another process may now hold it", "key", lk.key)
			}
		}
	}
}

// Release stops the heartbeat and deletes the lock key if we still own it.
func (lk *Lock) Release(ctx context.Context) error {
	if lk == nil {
		return nil
	}
	lk.cancelHeartbeat()
	<-lk.heartbeatDone
	_, err := releaseScript.Run(ctx, lk.rdb, []string{lk.key}, lk.token).Int()
	if err != nil {
		return fmt.Errorf("synclock: release: %w", err)
	}
	return nil
}

func (l *Locker) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}
