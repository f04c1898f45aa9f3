package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/binabdulkhalim-prog/winter-starfall/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultActivityCapacity = 100

// ActivityLog keeps the most recent backend calls, newest first.
type ActivityLog struct {
	mu       sync.Mutex
	events   []*models.ActivityEvent
	capacity int
	selected uuid.UUID
	now      func() time.Time
	logger   *zap.Logger
}

func NewActivityLog(capacity int, logger *zap.Logger) *ActivityLog {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLog{
		capacity: capacity,
		now:      time.Now,
		logger:   logger,
	}
}

// Begin records a call that has not returned yet and returns its ID.
func (l *ActivityLog) Begin(api, title string, request interface{}) uuid.UUID {
	event := &models.ActivityEvent{
		ID:      uuid.New(),
		API:     api,
		Title:   title,
		Request: toRawJSON(request),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	event.Date = l.now()
	l.events = append([]*models.ActivityEvent{event}, l.events...)
	if len(l.events) > l.capacity {
		l.events = l.events[:l.capacity]
	}

	l.logger.Debug("[ACTIVITY] call started", zap.String("call", event.Name()), zap.Stringer("id", event.ID))
	return event.ID
}

// Finish stores the outcome of a call. A non-nil err marks it failed; the
// error text becomes the result when result is nil.
func (l *ActivityLog) Finish(id uuid.UUID, result interface{}, err error) {
	success := err == nil
	if err != nil && result == nil {
		result = map[string]string{"error": err.Error()}
	}
	raw := toRawJSON(result)

	l.mu.Lock()
	defer l.mu.Unlock()

	event := l.find(id)
	if event == nil {
		l.logger.Debug("[ACTIVITY] finish for evicted call", zap.Stringer("id", id))
		return
	}
	event.Result = raw
	event.IsSuccessful = &success

	if success {
		l.logger.Debug("[ACTIVITY] call succeeded", zap.String("call", event.Name()))
	} else {
		l.logger.Info("[ACTIVITY] call failed", zap.String("call", event.Name()), zap.Error(err))
	}
}

// Events returns copies of the logged events, newest first.
func (l *ActivityLog) Events() []models.ActivityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	events := make([]models.ActivityEvent, len(l.events))
	for i, e := range l.events {
		events[i] = *e
	}
	return events
}

func (l *ActivityLog) Get(id uuid.UUID) (models.ActivityEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := l.find(id)
	if event == nil {
		return models.ActivityEvent{}, false
	}
	return *event, true
}

func (l *ActivityLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
	l.selected = uuid.Nil
}

// Select marks an event as the one shown in detail. Unknown IDs are ignored.
func (l *ActivityLog) Select(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.find(id) == nil {
		return false
	}
	l.selected = id
	return true
}

func (l *ActivityLog) Selected() (models.ActivityEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.selected == uuid.Nil {
		return models.ActivityEvent{}, false
	}
	event := l.find(l.selected)
	if event == nil {
		return models.ActivityEvent{}, false
	}
	return *event, true
}

func (l *ActivityLog) ClearSelected() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = uuid.Nil
}

func (l *ActivityLog) find(id uuid.UUID) *models.ActivityEvent {
	for _, e := range l.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func toRawJSON(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return data
}
