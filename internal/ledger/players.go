package ledger

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// entry binds a login to a password hash and the owning player.
type entry struct {
	passwordHash []byte
	player       *Player
}

// PlayerRegistry registers players and authenticates them by login and
// password. Passwords are stored as bcrypt hashes, never in the clear.
type PlayerRegistry struct {
	mu      sync.Mutex
	players map[identity]*Player
	entries map[string]entry
	lastID  int64
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		players: make(map[identity]*Player),
		entries: make(map[string]entry),
	}
}

// Register creates a new player and records its credential entry.
// Fails with ErrPlayerExists when a player with the same
// (firstName, lastName, email) is already registered, and with
// ErrLoginTaken when the login is already in use.
func (r *PlayerRegistry) Register(firstName, lastName, email, login, password string) (*Player, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := identity{firstName: firstName, lastName: lastName, email: email}

	_, exists := r.players[key]
	if exists {
		return nil, ErrPlayerExists
	}

	_, taken := r.entries[login]
	if taken {
		return nil, ErrLoginTaken
	}

	r.lastID++

	player := &Player{
		ID:        r.lastID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}

	r.players[key] = player
	r.entries[login] = entry{passwordHash: hash, player: player}

	return player, nil
}

// Authorize returns the player bound to login after checking the
// password. Fails with ErrUnknownLogin for an unregistered login and
// ErrWrongPassword for a bad password.
func (r *PlayerRegistry) Authorize(login, password string) (*Player, error) {
	r.mu.Lock()
	ent, ok := r.entries[login]
	r.mu.Unlock()

	if !ok {
		return nil, ErrUnknownLogin
	}

	err := bcrypt.CompareHashAndPassword(ent.passwordHash, []byte(password))
	if err != nil {
		return nil, ErrWrongPassword
	}

	return ent.player, nil
}

// Resolve returns the player bound to login without a password check.
// Used by callers that have already authenticated the login through an
// access token.
func (r *PlayerRegistry) Resolve(login string) (*Player, error) {
	r.mu.Lock()
	ent, ok := r.entries[login]
	r.mu.Unlock()

	if !ok {
		return nil, ErrUnknownLogin
	}

	return ent.player, nil
}
