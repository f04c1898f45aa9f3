package db

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrQueueClosed = errors.New("db queue is closed")

type DBTask struct {
	Exec func(*sql.DB) (interface{}, error)
	Resp chan DBResult
}

type DBResult struct {
	Data interface{}
	Err  error
}

// DBQueue runs all database work on a single worker goroutine so that SQLite
// only ever sees one writer.
type DBQueue struct {
	tasks      chan DBTask
	db         *sql.DB
	logger     *zap.Logger
	maxRetry   int
	retryDelay time.Duration
	testMode   bool

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDBQueue(db *sql.DB, logger *zap.Logger) *DBQueue {
	return newDBQueue(db, logger, 100*time.Millisecond, false)
}

func NewDBQueueForTest(db *sql.DB) *DBQueue {
	return newDBQueue(db, nil, time.Millisecond, true)
}

func newDBQueue(db *sql.DB, logger *zap.Logger, retryDelay time.Duration, testMode bool) *DBQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &DBQueue{
		tasks:      make(chan DBTask, 100),
		db:         db,
		logger:     logger,
		maxRetry:   3,
		retryDelay: retryDelay,
		testMode:   testMode,
		done:       make(chan struct{}),
	}
	go q.worker()
	return q
}

func (q *DBQueue) Execute(task func(*sql.DB) (interface{}, error)) (interface{}, error) {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return nil, ErrQueueClosed
	}
	resp := make(chan DBResult, 1)
	q.tasks <- DBTask{Exec: task, Resp: resp}
	q.mu.RUnlock()

	result := <-resp
	return result.Data, result.Err
}

func (q *DBQueue) worker() {
	defer close(q.done)
	for task := range q.tasks {
		task.Resp <- q.executeWithRetry(task)
	}
}

func (q *DBQueue) executeWithRetry(task DBTask) DBResult {
	var lastErr error
	for attempt := 0; attempt < q.maxRetry; attempt++ {
		data, err := task.Exec(q.db)
		if err == nil {
			return DBResult{Data: data}
		}
		if isPermanent(err) {
			return DBResult{Err: err}
		}
		lastErr = err
		q.logger.Debug("[DB_QUEUE] task failed", zap.Int("attempt", attempt+1), zap.Error(err))
		if attempt < q.maxRetry-1 {
			if q.testMode {
				time.Sleep(q.retryDelay)
			} else {
				time.Sleep(time.Duration(attempt+1) * q.retryDelay)
			}
		}
	}
	q.logger.Warn("[DB_QUEUE] task failed after retries", zap.Int("attempts", q.maxRetry), zap.Error(lastErr))
	return DBResult{Err: lastErr}
}

// isPermanent reports errors that a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, ErrDataVersionConflict) || errors.Is(err, sql.ErrNoRows)
}

// Close stops accepting tasks and waits for queued ones to finish.
func (q *DBQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	<-q.done
}
