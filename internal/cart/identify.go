package cart

import (
	"github.com/google/uuid"
)

// SessionKey is the session entry holding the cart identifier.
const SessionKey = "CartId"

// SessionStore is the part of a session the cart needs. sessions.Session
// satisfies it.
type SessionStore interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
}

// Identify returns the session's cart identifier, assigning one on first use:
// the signed-in user name when there is one, otherwise a random token. The
// caller is responsible for saving the session.
func Identify(s SessionStore, userName string) string {
	if id, ok := s.Get(SessionKey).(string); ok && id != "" {
		return id
	}

	id := userName
	if id == "" {
		id = uuid.NewString()
	}
	s.Set(SessionKey, id)
	return id
}
