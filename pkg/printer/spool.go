package printer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/qlabel/pkg/cache"
	qerrors "github.com/matzehuels/qlabel/pkg/errors"
)

// DefaultQueue is the Redis list the print daemon consumes.
const DefaultQueue = "qlabel:jobs"

// RedisSpooler pushes jobs as JSON onto a Redis list.
type RedisSpooler struct {
	client *redis.Client
	queue  string
}

// NewRedisSpooler spools onto queue using client.
func NewRedisSpooler(client *redis.Client, queue string) *RedisSpooler {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RedisSpooler{client: client, queue: queue}
}

// Submit pushes job onto the queue, retrying connection failures.
func (s *RedisSpooler) Submit(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return qerrors.Wrap(qerrors.ErrCodeInternal, err, "encode job %s", job.ID)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		err := s.client.LPush(ctx, s.queue, payload).Err()
		var netErr net.Error
		if errors.As(err, &netErr) {
			return cache.Retryable(err)
		}
		return err
	})
	if err != nil {
		return qerrors.Wrap(qerrors.ErrCodePrinter, err, "spool job %s", job.ID)
	}
	return nil
}

// Pending returns the number of queued jobs.
func (s *RedisSpooler) Pending(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.queue).Result()
}

// Close closes the Redis client.
func (s *RedisSpooler) Close() error {
	return s.client.Close()
}

// DirSpooler writes each job as <id>.png plus an <id>.json sidecar.
type DirSpooler struct {
	dir string
}

// NewDirSpooler spools into dir, creating it if needed.
func NewDirSpooler(dir string) (*DirSpooler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, qerrors.Wrap(qerrors.ErrCodeInvalidConfig, err, "create spool dir %s", dir)
	}
	return &DirSpooler{dir: dir}, nil
}

// Submit writes the job files. The sidecar is written last so a watcher
// that triggers on .json always finds the image.
func (s *DirSpooler) Submit(ctx context.Context, job *Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, job.ID+".png"), job.Image, 0644); err != nil {
		return qerrors.Wrap(qerrors.ErrCodePrinter, err, "spool job %s", job.ID)
	}

	meta := *job
	meta.Image = nil
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return qerrors.Wrap(qerrors.ErrCodeInternal, err, "encode job %s", job.ID)
	}
	if err := os.WriteFile(filepath.Join(s.dir, job.ID+".json"), data, 0644); err != nil {
		return qerrors.Wrap(qerrors.ErrCodePrinter, err, "spool job %s", job.ID)
	}
	return nil
}

// Dir returns the spool directory.
func (s *DirSpooler) Dir() string { return s.dir }

func (s *DirSpooler) Close() error { return nil }

// NullSpooler accepts every job and prints nothing.
type NullSpooler struct{}

func (NullSpooler) Submit(ctx context.Context, job *Job) error { return ctx.Err() }

func (NullSpooler) Close() error { return nil }

// String implementations identify the backend in logs.
func (s *RedisSpooler) String() string { return fmt.Sprintf("redis list %s", s.queue) }
func (s *DirSpooler) String() string   { return "directory " + s.dir }
func (NullSpooler) String() string     { return "dry run" }

var (
	_ Spooler = (*RedisSpooler)(nil)
	_ Spooler = (*DirSpooler)(nil)
	_ Spooler = NullSpooler{}
)
