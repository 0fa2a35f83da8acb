package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalCallQueuePushPull(t *testing.T) {
	q := NewLocalCallQueue(4)
	ctx := context.Background()

	req := CallRequest{CallID: "1", Function: "echo", Input: []byte("hi")}
	require.NoError(t, q.Push(ctx, req))

	got, err := q.Pull(ctx)
	require.NoError(t, err)
	require.Equal(t, req, *got)
}

func TestLocalCallQueuePullBlocksUntilCancel(t *testing.T) {
	q := NewLocalCallQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Pull(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNoopPublisherDiscards(t *testing.T) {
	p := NoopPublisher{}
	require.NoError(t, p.Publish(context.Background(), ChainMessage{Function: "x"}))
	require.NoError(t, p.Close())
}
