package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clockwise/attendance-tracker/internal/api/metrics"
	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes attendance marks to a fixed set of workers by employee
// id, so marks for one employee are applied in the order they were queued.
type Dispatcher struct {
	workers []chan ports.AttendanceMark
	marker  ports.AttendanceMarker
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.MarkQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, marker ports.AttendanceMarker, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AttendanceMark, numWorkers),
		marker:  marker,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AttendanceMark, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a mark to the worker that owns its employee. It blocks while
// that worker's buffer is full, unless ctx ends first.
func (d *Dispatcher) Enqueue(ctx context.Context, mark ports.AttendanceMark) error {
	if !mark.Kind.Valid() {
		return domain.ErrInvalidAttendanceKind
	}
	idx := d.shardIndex(mark.EmployeeID)
	select {
	case d.workers[idx] <- mark:
		metrics.MarkQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueBatch validates every mark before queueing any of them.
func (d *Dispatcher) EnqueueBatch(ctx context.Context, marks []ports.AttendanceMark) error {
	for _, m := range marks {
		if !m.Kind.Valid() {
			return domain.ErrInvalidAttendanceKind
		}
	}
	for _, m := range marks {
		if err := d.Enqueue(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) shardIndex(employeeID int) int {
	if employeeID < 0 {
		employeeID = -employeeID
	}
	return employeeID % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AttendanceMark) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case mark := <-ch:
			metrics.MarkQueueDepth.WithLabelValues(label).Dec()
			d.process(ctx, id, mark)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, mark ports.AttendanceMark) {
	start := time.Now()
	_, err := d.marker.MarkAttendance(ctx, mark.EmployeeID, mark.Kind)
	metrics.MarkDuration.WithLabelValues(string(mark.Kind)).Observe(time.Since(start).Seconds())
	metrics.MarksTotal.WithLabelValues(string(mark.Kind), MarkResult(err)).Inc()

	switch {
	case err == nil:
		d.log.Debug().Int("employee_id", mark.EmployeeID).Str("kind", string(mark.Kind)).Msg("queued mark applied")
	case isRuleViolation(err):
		d.log.Warn().Err(err).
			Int("employee_id", mark.EmployeeID).
			Str("kind", string(mark.Kind)).
			Msg("queued mark rejected")
	default:
		d.log.Error().Err(err).
			Int("employee_id", mark.EmployeeID).
			Int("worker_id", workerID).
			Msg("queued mark failed")
	}
}

// MarkResult maps a MarkAttendance outcome onto the "result" metric label.
func MarkResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, domain.ErrAlreadyCheckedOut):
		return "already_checked_out"
	case errors.Is(err, domain.ErrMustCheckInFirst):
		return "must_check_in_first"
	case errors.Is(err, domain.ErrInvalidAttendanceKind):
		return "invalid_kind"
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return "unknown_employee"
	default:
		return "error"
	}
}

func isRuleViolation(err error) bool {
	return errors.Is(err, domain.ErrAlreadyCheckedIn) ||
		errors.Is(err, domain.ErrAlreadyCheckedOut) ||
		errors.Is(err, domain.ErrMustCheckInFirst) ||
		errors.Is(err, domain.ErrEmployeeNotFound)
}
