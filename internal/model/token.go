package model

// TokenPair is the credential pair returned by POST /auth/login/. The pair is
// persisted and cleared as a unit; a half-present pair is never observable.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both credentials are present.
func (p TokenPair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}
