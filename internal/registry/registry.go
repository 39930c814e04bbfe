package registry

import (
	"sync"

	"github.com/rocketscienceinc/matchrelay-backend/internal/entity"
	"github.com/rocketscienceinc/matchrelay-backend/internal/match"
	"github.com/rocketscienceinc/matchrelay-backend/internal/pkg"
)

// Registry maps session id to live match session. One entry per live match;
// entries are removed on termination.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*match.Session
}

func New() *Registry {
	return &Registry{
		sessions: make(map[string]*match.Session),
	}
}

// Create - constructs a session for the two players under a freshly generated
// identifier and stores it. The id is re-rolled on the off chance it collides
// with a live session.
func (that *Registry) Create(playerX, playerO entity.Player) *match.Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	var id string
	for {
		id = pkg.GenerateSessionID()
		if _, exists := that.sessions[id]; !exists {
			break
		}
	}

	session := match.NewSession(id, playerX, playerO)
	that.sessions[id] = session

	return session
}

// Lookup - returns the live session for id, if any.
func (that *Registry) Lookup(id string) (*match.Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]

	return session, ok
}

// Terminate - removes the session; idempotent.
func (that *Registry) Terminate(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)
}

// HasParticipant - reports whether any live session contains connectionID.
func (that *Registry) HasParticipant(connectionID string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, session := range that.sessions {
		if session.HasParticipant(connectionID) {
			return true
		}
	}

	return false
}

// TerminateByConnection - finds the session containing connectionID, aborts
// and removes it, and returns it together with the remaining participant.
func (that *Registry) TerminateByConnection(connectionID string) (*match.Session, entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, session := range that.sessions {
		if !session.HasParticipant(connectionID) {
			continue
		}

		delete(that.sessions, id)
		session.Abort()

		opponent, _ := session.Opponent(connectionID)

		return session, opponent, true
	}

	return nil, entity.Player{}, false
}

// Len - returns the number of live sessions.
func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}
