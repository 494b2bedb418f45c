// Package queue provides background job processing. Order confirmation mail
// and facet cache warming run through it so checkout never blocks on SMTP.
//
// Usage:
//
//	type OrderConfirmationJob struct { OrderID uint }
//	func (j *OrderConfirmationJob) Handle() error { ... }
//
//	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
//	queue.Dispatch(&OrderConfirmationJob{OrderID: 42})
//	queue.DispatchAfter(&OrderConfirmationJob{OrderID: 43}, 30*time.Second)
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dkrylov/camshop/pkg/logger"
	"github.com/dkrylov/camshop/pkg/metrics"
	"github.com/dkrylov/camshop/pkg/workerpool"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle() error
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  json.RawMessage
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// Delayer is implemented by drivers that support native delayed delivery
// (the Redis driver). Without it, DispatchAfter falls back to a goroutine.
type Delayer interface {
	PushDelayed(payload []byte, delay time.Duration) error
}

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job // type name → constructor
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the underlying queue driver (e.g. Redis).
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry sets how many times a failing job is retried.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register makes a job type available for deserialization by name.
// Call once at boot for every job type (name is fmt.Sprintf("%T", job)).
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

type jobEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately.
func Dispatch(job Job) error {
	return defaultManager.push(job)
}

// DispatchAfter pushes job onto the queue after a delay. Drivers that
// implement Delayer get native delayed delivery; otherwise a goroutine
// sleeps and dispatches.
func DispatchAfter(job Job, delay time.Duration) {
	env, err := defaultManager.marshal(job)
	if err != nil {
		logger.Error("queue: delayed dispatch failed", "error", err)
		return
	}

	defaultManager.mu.RLock()
	d := defaultManager.driver
	defaultManager.mu.RUnlock()

	if delayer, ok := d.(Delayer); ok {
		if err := delayer.PushDelayed(env, delay); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
		return
	}

	go func() {
		time.Sleep(delay)
		if err := d.Push(env); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	}()
}

func (m *Manager) marshal(job Job) ([]byte, error) {
	typeName := fmt.Sprintf("%T", job)

	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", typeName, err)
	}

	env, err := json.Marshal(jobEnvelope{Type: typeName, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

func (m *Manager) push(job Job) error {
	env, err := m.marshal(job)
	if err != nil {
		return err
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// StartWorkers launches a dispatcher that pops jobs from the queue and runs
// them on a bounded worker pool of size n. Returns when ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	pool := workerpool.New(n)

	go func() {
		defer pool.Shutdown()

		for {
			m := defaultManager
			m.mu.RLock()
			d := m.driver
			m.mu.RUnlock()

			raw, err := d.Pop(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if raw == nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}

			payload := raw
			if err := pool.SubmitWait(func() { m.process(payload) }); err != nil {
				return // pool closed
			}
		}
	}()

	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) process(raw []byte) {
	var env jobEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(job, env.Type, env.Payload)
}

func (m *Manager) runWithRetry(job Job, typeName string, payload json.RawMessage) {
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", typeName, "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * time.Second) // linear backoff
			continue
		}
		metrics.RecordQueueJob(typeName, "ok", start)
		logger.Info("queue: job processed", "type", typeName)
		return
	}

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Type:     typeName,
		Payload:  payload,
		Err:      lastErr,
		FailedAt: time.Now(),
		Attempts: m.maxRetry,
	})
	m.mu.Unlock()

	metrics.RecordQueueJob(typeName, "failed", start)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}

// FailedJobs returns a snapshot of all failed jobs.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}

// RetryFailed re-dispatches every failed job and clears the failed list.
func RetryFailed() error {
	defaultManager.mu.Lock()
	failed := defaultManager.failed
	defaultManager.failed = nil
	defaultManager.mu.Unlock()

	for _, f := range failed {
		env, err := json.Marshal(jobEnvelope{Type: f.Type, Payload: f.Payload})
		if err != nil {
			return err
		}

		defaultManager.mu.RLock()
		d := defaultManager.driver
		defaultManager.mu.RUnlock()

		if err := d.Push(env); err != nil {
			return err
		}
	}
	return nil
}
