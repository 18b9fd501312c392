package services

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Task is one unit of background work with a stable id for log correlation.
type Task struct {
	ID   string
	Name string
	Run  func() error
}

// Worker runs quotation updates detached from the requests that trigger
// them. Failures are reported on the structured log channel only; the
// triggering request has already returned by the time a task runs, so
// nothing propagates back. No cancellation is exposed.
type Worker struct {
	logger *slog.Logger
	tasks  chan Task

	mu       sync.Mutex
	closed   bool
	failures int

	wg   sync.WaitGroup
	once sync.Once
}

// NewWorker creates a worker with a bounded queue. queueSize <= 0 falls back
// to a small default.
func NewWorker(logger *slog.Logger, queueSize int) *Worker {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Worker{
		logger: logger,
		tasks:  make(chan Task, queueSize),
	}
}

// Start launches the processing goroutine. Safe to call once.
func (w *Worker) Start() {
	w.once.Do(func() {
		w.wg.Add(1)
		go w.loop()
	})
}

// Enqueue schedules a task without blocking. When the queue is full or the
// worker already stopped, the task is dropped and the drop logged --
// quotation derivation is best-effort and the system behaves as if the
// enhancement had produced no billable change.
func (w *Worker) Enqueue(name string, run func() error) (string, bool) {
	task := Task{
		ID:   uuid.NewString(),
		Name: name,
		Run:  run,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.logger.Warn("worker: stopped, dropping task", "task", name, "id", task.ID)
		return task.ID, false
	}

	select {
	case w.tasks <- task:
		return task.ID, true
	default:
		w.logger.Warn("worker: queue full, dropping task", "task", name, "id", task.ID)
		return task.ID, false
	}
}

// Stop drains the queue and waits for in-flight work to finish. Tasks
// enqueued after Stop are dropped.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.tasks)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// Failures returns how many tasks have failed since start.
func (w *Worker) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for task := range w.tasks {
		if err := task.Run(); err != nil {
			w.mu.Lock()
			w.failures++
			w.mu.Unlock()
			w.logger.Error("worker: task failed", "task", task.Name, "id", task.ID, "error", err)
			continue
		}
		w.logger.Debug("worker: task done", "task", task.Name, "id", task.ID)
	}
}
