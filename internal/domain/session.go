package domain

// Identity holds the claims derived from a decoded bearer token. It is
// constructed only by the token decoder and read through the session store.
type Identity struct {
	SubjectEmail string `json:"email"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"name,omitempty"`
	Subdomain    string `json:"subdomain,omitempty"`
}

// Session pairs the raw bearer token with the identity decoded from it.
// Identity is non-nil exactly when Token is non-empty and the most recent
// decode attempt succeeded.
type Session struct {
	Token    string
	Identity *Identity
}

// Authenticated reports whether the session carries a decoded identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}
