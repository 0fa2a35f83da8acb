package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ardhipoetra/faasm/engine"
	"github.com/ardhipoetra/faasm/queue"
	"github.com/ardhipoetra/faasm/vfs"
)

// Pool owns N executor goroutines, each pulling CallRequests from a
// queue.CallQueue, running them to completion one at a time, and publishing
// any chained calls the run produced onward. N is fixed for the pool's
// lifetime; executors are never added or removed after Run starts.
type Pool struct {
	Engine    *engine.Engine
	VFS       *vfs.VFS
	Loader    Loader
	Calls     queue.CallQueue
	Chains    queue.Publisher
	Executors int

	CaptureStdout bool
}

// Run starts Executors goroutines and blocks until ctx is cancelled, then
// waits for every in-flight call to finish before returning.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	n := p.Executors
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.loop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (p *Pool) loop(ctx context.Context, id int) {
	exec := &Executor{
		Engine:        p.Engine,
		VFS:           p.VFS,
		Loader:        p.Loader,
		CaptureStdout: p.CaptureStdout,
	}
	for {
		req, err := p.Calls.Pull(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			Logger().Warn("pull call request", zap.Int("executor", id), zap.Error(err))
			continue
		}

		rec := &CallRecord{
			CallID:   req.CallID,
			UserID:   req.UserID,
			Function: req.Function,
			Input:    req.Input,
		}
		if err := exec.Run(ctx, rec); err != nil {
			Logger().Warn("call failed",
				zap.Int("executor", id),
				zap.String("function", rec.Function),
				zap.Error(err))
		}

		for _, c := range rec.Chains {
			msg := queue.ChainMessage{ParentCallID: rec.CallID, UserID: rec.UserID, Function: c.Name, Input: c.Input}
			if err := p.Chains.Publish(ctx, msg); err != nil {
				Logger().Warn("publish chain", zap.Int("executor", id), zap.Error(err))
			}
		}
	}
}
