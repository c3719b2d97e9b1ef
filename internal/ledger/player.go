package ledger

// Player is a registered user identity. The (FirstName, LastName,
// Email) tuple is the natural equality key; two registrations with the
// same tuple are the same player.
//
// A player owns exactly one account, attached at registration and
// immutable afterwards.
type Player struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string

	Account *Account
}

// identity is the map key for player uniqueness checks.
type identity struct {
	firstName string
	lastName  string
	email     string
}
