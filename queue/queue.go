// Package queue publishes chained function calls to the external message
// queue. The original system dispatched chains through a Redis list; this
// package keeps that choice and wires the real go-redis client rather than
// stubbing it.
package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/ardhipoetra/faasm/errors"
)

// ChainMessage is the wire record published for one chained invocation.
type ChainMessage struct {
	ParentCallID string `json:"parentCallId"`
	UserID       string `json:"userId"`
	Function     string `json:"function"`
	Input        []byte `json:"input"`
}

// streamKey is the Redis list every chained call is pushed onto; one worker
// process or many can BLPOP from it concurrently.
const streamKey = "faasm:chain"

// Publisher publishes chain messages. Implementations must be safe for
// concurrent use by every executor in the process.
type Publisher interface {
	Publish(ctx context.Context, msg ChainMessage) error
	Close() error
}

// RedisPublisher is the production Publisher, backed by a single
// *redis.Client shared by the whole process per the "process-wide, safe
// under concurrent use" resource model.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher dials a Redis endpoint (host:port) and returns a
// Publisher. The underlying client pools its own connections; callers
// should not wrap it in an additional pool or mutex.
func NewRedisPublisher(endpoint string) (*RedisPublisher, error) {
	opts := &redis.Options{Addr: endpoint}
	client := redis.NewClient(opts)
	return &RedisPublisher{client: client}, nil
}

// Publish fire-and-forgets msg onto the chain list: it pushes and returns
// without waiting for a consumer, matching the "parent does not block on
// child completion" contract.
func (p *RedisPublisher) Publish(ctx context.Context, msg ChainMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(errors.PhaseQueue, errors.KindInvalidInput, err, "marshal chain message")
	}
	if err := p.client.RPush(ctx, streamKey, payload).Err(); err != nil {
		return errors.IO(errors.PhaseQueue, "publish chain message", err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher discards every message; used when queueEndpoint is left
// unconfigured (e.g. in single-shot CLI invocations that don't need fanout).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ChainMessage) error { return nil }
func (NoopPublisher) Close() error                                { return nil }

// callQueueKey is the Redis list executors block-pop calls from. Chains
// published via Publish do not land here: they go to the separate streamKey
// list, which RedisCallQueue does not read.
const callQueueKey = "faasm:calls"

// CallRequest is one pending invocation waiting to run.
type CallRequest struct {
	CallID   string `json:"callId"`
	UserID   string `json:"userId"`
	Function string `json:"function"`
	Input    []byte `json:"input"`
}

// CallQueue is pulled by Worker's executor pool. Pull blocks until a request
// is available or ctx is cancelled.
type CallQueue interface {
	Pull(ctx context.Context) (*CallRequest, error)
	Push(ctx context.Context, req CallRequest) error
	Close() error
}

// RedisCallQueue is the production CallQueue, backed by a blocking list pop
// so idle executors cost nothing beyond one open connection.
type RedisCallQueue struct {
	client *redis.Client
}

func NewRedisCallQueue(endpoint string) (*RedisCallQueue, error) {
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	return &RedisCallQueue{client: client}, nil
}

func (q *RedisCallQueue) Push(ctx context.Context, req CallRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(errors.PhaseQueue, errors.KindInvalidInput, err, "marshal call request")
	}
	if err := q.client.RPush(ctx, callQueueKey, payload).Err(); err != nil {
		return errors.IO(errors.PhaseQueue, "push call request", err)
	}
	return nil
}

// Pull blocks via BLPOP with no timeout, relying on ctx cancellation to
// unblock it when the executor is shutting down.
func (q *RedisCallQueue) Pull(ctx context.Context) (*CallRequest, error) {
	res, err := q.client.BLPop(ctx, 0, callQueueKey).Result()
	if err != nil {
		return nil, errors.IO(errors.PhaseQueue, "pull call request", err)
	}
	// BLPop returns [key, value]; index 1 is the popped payload.
	var req CallRequest
	if err := json.Unmarshal([]byte(res[1]), &req); err != nil {
		return nil, errors.Wrap(errors.PhaseQueue, errors.KindInvalidInput, err, "unmarshal call request")
	}
	return &req, nil
}

func (q *RedisCallQueue) Close() error {
	return q.client.Close()
}

// LocalCallQueue is an in-process CallQueue backed by a Go channel, used by
// the single-shot CLI path where there is no Redis deployment to talk to.
type LocalCallQueue struct {
	ch chan CallRequest
}

func NewLocalCallQueue(capacity int) *LocalCallQueue {
	return &LocalCallQueue{ch: make(chan CallRequest, capacity)}
}

func (q *LocalCallQueue) Push(ctx context.Context, req CallRequest) error {
	select {
	case q.ch <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *LocalCallQueue) Pull(ctx context.Context) (*CallRequest, error) {
	select {
	case req := <-q.ch:
		return &req, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *LocalCallQueue) Close() error {
	close(q.ch)
	return nil
}
