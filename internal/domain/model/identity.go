package model

// Identity is the authenticated principal provided by the fronting auth
// collaborator. Token mechanics live outside this service.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// Valid reports whether the identity carries a stable user ID.
func (i *Identity) Valid() bool {
	return i != nil && i.UserID != ""
}
