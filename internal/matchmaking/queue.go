package matchmaking

import (
	"sync"

	"github.com/rocketscienceinc/matchrelay-backend/internal/apperror"
)

// Entry is a connection waiting to be paired.
type Entry struct {
	ConnectionID string
	Name         string
}

// Queue holds waiting connections and pairs them two at a time, FIFO.
type Queue struct {
	mu      sync.Mutex
	waiting []Entry
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue - adds a waiting entry keyed by connection identity. Re-enqueuing a
// connection that is already waiting replaces its entry in place, so a single
// connection can never occupy both match slots. When two entries are
// available the oldest two are removed under the queue lock and returned;
// neither can be selected again.
func (that *Queue) Enqueue(connectionID, name string) ([2]Entry, bool, error) {
	var pair [2]Entry

	if name == "" {
		return pair, false, apperror.ErrEmptyName
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	replaced := false
	for i := range that.waiting {
		if that.waiting[i].ConnectionID == connectionID {
			that.waiting[i].Name = name
			replaced = true
			break
		}
	}

	if !replaced {
		that.waiting = append(that.waiting, Entry{ConnectionID: connectionID, Name: name})
	}

	if len(that.waiting) < 2 {
		return pair, false, nil
	}

	pair[0], pair[1] = that.waiting[0], that.waiting[1]
	that.waiting = append([]Entry{}, that.waiting[2:]...)

	return pair, true, nil
}

// DequeueIfWaiting - removes a connection's entry if present; no-op otherwise.
// A removed entry is never pairable afterwards.
func (that *Queue) DequeueIfWaiting(connectionID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i := range that.waiting {
		if that.waiting[i].ConnectionID == connectionID {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)
			return true
		}
	}

	return false
}

// Len - returns the number of waiting entries.
func (that *Queue) Len() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.waiting)
}
