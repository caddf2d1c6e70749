// Package jobs runs work off the game loop goroutine and hands the results
// back to it.
package jobs

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/spaghettifunk/kiln/engine/component"
	"github.com/spaghettifunk/kiln/engine/core"
)

var (
	ErrNoWorkers           = errors.New("attempting to create worker pool with less than 1 worker")
	ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
	ErrJobSystemClosed     = errors.New("job system closed")
)

// Job is a unit of background work. Run executes on a worker goroutine;
// OnComplete or OnFailure then runs on the game loop goroutine during the
// next update of the job system.
type Job struct {
	Name       string
	Run        func() (any, error)
	OnComplete func(result any)
	OnFailure  func(err error)
}

type completion struct {
	job    Job
	result any
	err    error
}

// System is a fixed size worker pool. It is an updateable component that
// runs before every other one so that callbacks see a consistent frame.
type System struct {
	component.Updater

	numWorkers int
	jobQueue   chan Job
	wg         sync.WaitGroup

	// held for reading while sending on jobQueue
	queueMu sync.RWMutex
	closed  bool

	mu        sync.Mutex
	completed []completion
	inFlight  int
}

func NewSystem(numWorkers int, channelSize int) (*System, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &System{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
	}
	js.SetUpdateOrder(math.MinInt32)
	js.start()

	core.LogInfo("Job system started with %d workers", numWorkers)
	return js, nil
}

func (js *System) Name() string {
	return "kiln.jobs"
}

func (js *System) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := js.run(job)
				if err != nil {
					core.LogError("job '%s' failed: %s", job.Name, err)
				}
				js.mu.Lock()
				js.completed = append(js.completed, completion{job: job, result: result, err: err})
				js.mu.Unlock()
			}
		}()
	}
}

func (js *System) run(job Job) (result any, err error) {
	if job.Run == nil {
		return nil, nil
	}
	return job.Run()
}

// Submit queues a job. It blocks while the queue is full.
func (js *System) Submit(job Job) error {
	js.queueMu.RLock()
	defer js.queueMu.RUnlock()
	if js.closed {
		return fmt.Errorf("%w: cannot submit '%s'", ErrJobSystemClosed, job.Name)
	}

	js.mu.Lock()
	js.inFlight++
	js.mu.Unlock()

	js.jobQueue <- job
	return nil
}

// Pending returns the number of submitted jobs whose callbacks have not run
// yet.
func (js *System) Pending() int {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.inFlight
}

// Update runs the callbacks of every job finished since the last update.
func (js *System) Update(core.GameTime) error {
	js.mu.Lock()
	done := js.completed
	js.completed = nil
	js.inFlight -= len(done)
	js.mu.Unlock()

	for _, c := range done {
		if c.err != nil {
			if c.job.OnFailure != nil {
				c.job.OnFailure(c.err)
			}
			continue
		}
		if c.job.OnComplete != nil {
			c.job.OnComplete(c.result)
		}
	}
	return nil
}

// Close stops accepting jobs, waits for the queued ones to run and drops
// their callbacks.
func (js *System) Close() error {
	js.queueMu.Lock()
	if js.closed {
		js.queueMu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.queueMu.Unlock()

	js.wg.Wait()

	js.mu.Lock()
	js.completed = nil
	js.inFlight = 0
	js.mu.Unlock()
	return nil
}
