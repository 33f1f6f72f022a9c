package model

// ConnID identifies one live transport channel. It is ephemeral: a
// reconnect produces a new ConnID even for the same account.
type ConnID string

// IdentityID is a persistent account reference supplied by the external
// identity service.
type IdentityID string

// Identity is an optional persistent player reference. Anonymous
// connections carry a nil *Identity; busy-state tracking then falls back
// to the connection handle.
type Identity struct {
	ID       IdentityID `json:"id"`
	Username string     `json:"username"`
	Verified bool       `json:"verified"`
}
