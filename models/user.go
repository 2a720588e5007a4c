package models

// User is the authenticated caller as described by the external identity
// service's session token. The API never stores users locally.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
