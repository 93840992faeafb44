package worker

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
)

var (
	ErrNilTask   = errors.New("nil task")
	ErrQueueFull = errors.New("worker queue full")
)

// Task is one unit of work. The context passed in is the pool's run context,
// not the submitter's.
type Task func(ctx context.Context) error

// Pool runs incoming Telegram updates on a fixed set of goroutines so one
// slow chat cannot exhaust the process. Submitters must not block on work
// they submitted to the same pool.
type Pool struct {
	wg    sync.WaitGroup
	queue chan Task
	quit  chan struct{}
	size  int
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		queue: make(chan Task, workers*4),
		quit:  make(chan struct{}),
		size:  workers,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.queue:
					if task == nil {
						continue
					}
					if err := task(ctx); err != nil {
						log.Printf("worker %d task error: %v", id, err)
					}
				}
			}
		}(i)
	}
}

func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// Submit enqueues a task without blocking; a full queue returns ErrQueueFull
// and the caller decides whether to drop or run inline.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}
