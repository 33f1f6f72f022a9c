package lobby

import (
	"strings"

	"github.com/lucasmnd/duodle/internal/dependencies/random"
	"github.com/lucasmnd/duodle/internal/model"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the characters used in room codes
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Registry holds the private lobbies awaiting a second player, keyed by
// room code, with a reverse index from hosting connection to code.
//
// Registry is not safe for concurrent use on its own: the session
// directory serializes every operation.
type Registry struct {
	random random.Random

	lobbies map[model.RoomCode]*model.PrivateLobby
	hosts   map[model.ConnID]model.RoomCode
}

// New creates an empty lobby registry
func New(rnd random.Random) *Registry {
	return &Registry{
		random:  rnd,
		lobbies: make(map[model.RoomCode]*model.PrivateLobby),
		hosts:   make(map[model.ConnID]model.RoomCode),
	}
}

// NormalizeCode upper-cases a submitted room code and validates its shape.
func NormalizeCode(raw string) (model.RoomCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != CodeLength {
		return "", model.ErrInvalidRoomCode
	}
	for _, r := range code {
		if !strings.ContainsRune(CodeAlphabet, r) {
			return "", model.ErrInvalidRoomCode
		}
	}
	return model.RoomCode(code), nil
}

// HostedCode returns the code of the lobby a connection hosts, if any.
func (r *Registry) HostedCode(conn model.ConnID) (model.RoomCode, bool) {
	code, ok := r.hosts[conn]
	return code, ok
}

// Create registers a new lobby for the host, generating a code that is
// unique among currently open lobbies. The lobby's Code field is filled in.
func (r *Registry) Create(l *model.PrivateLobby) model.RoomCode {
	var code model.RoomCode
	for {
		code = model.RoomCode(r.random.String(CodeLength, CodeAlphabet))
		if _, exists := r.lobbies[code]; !exists {
			break
		}
	}

	l.Code = code
	r.lobbies[code] = l
	r.hosts[l.HostConn] = code
	return code
}

// Get looks up an open lobby by code.
func (r *Registry) Get(code model.RoomCode) (*model.PrivateLobby, bool) {
	l, ok := r.lobbies[code]
	return l, ok
}

// Take removes an open lobby by code and returns it, so a join consumes
// the lobby atomically.
func (r *Registry) Take(code model.RoomCode) (*model.PrivateLobby, bool) {
	l, ok := r.lobbies[code]
	if !ok {
		return nil, false
	}
	delete(r.lobbies, code)
	delete(r.hosts, l.HostConn)
	return l, true
}

// Cancel removes the lobby a connection hosts, if any. Idempotent.
func (r *Registry) Cancel(conn model.ConnID) (*model.PrivateLobby, bool) {
	code, ok := r.hosts[conn]
	if !ok {
		return nil, false
	}
	l := r.lobbies[code]
	delete(r.lobbies, code)
	delete(r.hosts, conn)
	return l, true
}

// HasIdentity reports whether any open lobby is hosted by the identity.
func (r *Registry) HasIdentity(id model.IdentityID) bool {
	for _, l := range r.lobbies {
		if l.Identity != nil && l.Identity.ID == id {
			return true
		}
	}
	return false
}

// OpenCount returns the number of lobbies currently awaiting a joiner.
func (r *Registry) OpenCount() int {
	return len(r.lobbies)
}
