package renderer

import (
	"fmt"
	"image/color"
	"runtime"
	"sync"
)

// PixelTask represents one pixel for the worker pool. Every sample of the
// pixel is taken by the worker that receives the task.
type PixelTask struct {
	Row, Col int
}

// PixelResult carries a finished pixel back to the aggregator
type PixelResult struct {
	Row, Col int
	Color    color.RGBA
	Samples  int
	Err      error
}

// WorkerPool manages parallel pixel rendering
type WorkerPool struct {
	taskQueue   chan PixelTask
	resultQueue chan PixelResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual pixel rendering tasks
type Worker struct {
	ID          int
	renderer    *PixelRenderer
	taskQueue   <-chan PixelTask
	resultQueue chan<- PixelResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// The renderer is shared read-only by all workers.
func NewWorkerPool(renderer *PixelRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// A few tasks in flight per worker keeps everyone busy without
	// buffering the whole image
	queueSize := numWorkers * 64

	wp := &WorkerPool{
		taskQueue:   make(chan PixelTask, queueSize),
		resultQueue: make(chan PixelResult, queueSize),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			renderer:    renderer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop signals that no more tasks will be submitted. The result queue is
// closed once every worker has drained the task queue.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()
}

// SubmitTask submits a pixel task to the worker pool
func (wp *WorkerPool) SubmitTask(task PixelTask) {
	wp.taskQueue <- task
}

// Results returns the channel on which finished pixels arrive. It is closed
// after Stop once all workers have exited.
func (wp *WorkerPool) Results() <-chan PixelResult {
	return wp.resultQueue
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.render(task)
	}
}

// render runs one task. A panic is turned into an error result so the
// aggregator can abort the render instead of waiting forever.
func (w *Worker) render(task PixelTask) (result PixelResult) {
	result = PixelResult{Row: task.Row, Col: task.Col}
	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("worker %d: pixel (%d, %d): %v", w.ID, task.Row, task.Col, r)
		}
	}()

	result.Color, result.Samples = w.renderer.RenderPixel(task.Row, task.Col)
	return result
}
