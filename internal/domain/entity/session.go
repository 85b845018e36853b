package entity

import "time"

// Session is the unauthenticated identity a store owner acts under.
// There is no password and no verification; the pair (email, store name)
// merely scopes orders and decides admin privilege by exact email match.
type Session struct {
	ID           string // Opaque session token, generated at login.
	Email        string
	StoreName    string
	CreatedAt    time.Time
	LastActiveAt time.Time
}
