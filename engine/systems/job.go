package systems

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spaghettifunk/houseview/engine/core"
)

/**
 * @brief Describes a job to be run.
 * Run executes on a worker goroutine. OnSuccess and OnFailure execute on the
 * goroutine that calls Update, which is the main thread in the engine.
 */
type JobTask struct {
	/** @brief Used in log messages. */
	Name string
	/** @brief The work itself. Required. */
	Run func() (interface{}, error)
	/** @brief Invoked with the result when Run succeeds. Optional. */
	OnSuccess func(result interface{})
	/** @brief Invoked with the error when Run fails. Optional. */
	OnFailure func(err error)
}

type jobResult struct {
	task   JobTask
	result interface{}
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mutex    sync.Mutex
	results  []jobResult
	inFlight atomic.Int32

	// closeMutex orders Submit against closing the queue.
	closeMutex sync.RWMutex
	closed     bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := runJob(job)
				if err != nil {
					core.LogError("job %q failed: %s", job.Name, err)
				}
				js.mutex.Lock()
				js.results = append(js.results, jobResult{task: job, result: result, err: err})
				js.mutex.Unlock()
			}
		}()
	}
}

func runJob(job JobTask) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	if job.Run == nil {
		return nil, errors.New("job has nothing to run")
	}
	return job.Run()
}

/**
 * @brief Shuts the job system down. Queued jobs still run; their results
 * are dropped unless Update is called afterwards.
 */
func (js *JobSystem) Shutdown() error {
	js.closeMutex.Lock()
	if js.closed {
		js.closeMutex.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.closeMutex.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Delivers finished jobs to their callbacks. Should happen once an
 * update cycle. Returns the number of jobs delivered.
 */
func (js *JobSystem) Update() int {
	js.mutex.Lock()
	done := js.results
	js.results = nil
	js.mutex.Unlock()

	for _, r := range done {
		js.inFlight.Add(-1)
		if r.err != nil {
			if r.task.OnFailure != nil {
				r.task.OnFailure(r.err)
			}
			continue
		}
		if r.task.OnSuccess != nil {
			r.task.OnSuccess(r.result)
		}
	}
	return len(done)
}

// Pending is the number of submitted jobs not yet delivered by Update.
func (js *JobSystem) Pending() int {
	return int(js.inFlight.Load())
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	js.closeMutex.RLock()
	defer js.closeMutex.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.inFlight.Add(1)
	js.jobQueue <- jt
	return nil
}
