package models

// Account is a row in the users table.
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Don't expose in JSON
	IsAdmin      bool   `json:"is_admin"`
}

// Session is the per-request view of the logged-in user. Handlers build it
// from the cookie session and the gallery core consumes only IsAdmin.
type Session struct {
	Username string
	IsAdmin  bool
}

// Notice is a flash message carried across a redirect.
type Notice struct {
	Kind    string // "success" or "error"
	Message string
}
