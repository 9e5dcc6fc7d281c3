package domain

// AuthMethod defines how the GitHub client authenticates.
type AuthMethod string

const (
	// AuthMethodNone makes anonymous requests. Reads of public repositories work; writes do not.
	AuthMethodNone AuthMethod = "none"
	// AuthMethodPAT uses a Personal Access Token.
	AuthMethodPAT AuthMethod = "pat"
)

// String returns the string representation.
func (m AuthMethod) String() string {
	return string(m)
}
