package processor

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type threadedProcessor struct {
	processRate int
	outputs

	kicks []chan bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewThreaded returns a processor that updates every channel on its own
// goroutine. Start must be called before Tick.
func NewThreaded(cfg Config) *threadedProcessor {
	vis := &threadedProcessor{
		processRate: cfg.ProcessRate,
		outputs:     newOutputs(cfg),
		kicks:       make([]chan bool, len(cfg.Channels)),
	}

	for idx := range vis.kicks {
		vis.kicks[idx] = make(chan bool)
	}

	return vis
}

func (vis *threadedProcessor) channelProcessor(ch *Channel, kick <-chan bool) {
	for {
		select {
		case <-vis.ctx.Done():
			return
		case <-kick:
		}

		// a received kick is always answered, even when ctx is done by now
		ch.Update()

		vis.wg.Done()
	}
}

func (vis *threadedProcessor) Start(ctx context.Context) context.Context {
	vis.ctx, vis.cancel = context.WithCancel(ctx)

	for i, kick := range vis.kicks {
		go vis.channelProcessor(vis.channels[i], kick)
	}

	return vis.ctx
}

func (vis *threadedProcessor) Stop() {
	if vis.cancel != nil {
		vis.cancel()
	}
}

// Tick updates all channels in parallel and writes once they are done.
func (vis *threadedProcessor) Tick() error {
	if vis.ctx == nil {
		return errors.New("threaded processor not started")
	}

	vis.wg.Add(len(vis.kicks))

	for idx, kick := range vis.kicks {
		select {
		case kick <- true:
		case <-vis.ctx.Done():
			vis.wg.Add(idx - len(vis.kicks))
			vis.wg.Wait()
			return vis.ctx.Err()
		}
	}

	vis.wg.Wait()

	return vis.write()
}

func (vis *threadedProcessor) Process(ctx context.Context) error {
	return run(ctx, vis.processRate, vis.Tick)
}
