package websession

import "time"

// State is the typed view of everything a session carries.
//
// Invariant: Authenticated == true implies SubjectID != "".
type State struct {
	// SubjectID is the identity (document number) being authenticated.
	SubjectID string `json:"subject_id,omitempty"`
	// ContactAddress is where an out-of-band code would be delivered.
	ContactAddress string `json:"contact_address,omitempty"`
	// LoginAt is when the subject started the login flow.
	LoginAt *time.Time `json:"login_at,omitempty"`
	// Authenticated marks a session that passed code validation.
	Authenticated bool `json:"authenticated"`
	// AuthAt is when validation succeeded.
	AuthAt *time.Time `json:"auth_at,omitempty"`
	// Attributes is a free-form bag exposed by the session debug endpoints.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// SetAttribute stores a free-form attribute, allocating the bag lazily.
func (s *State) SetAttribute(key, value string) {
	if s.Attributes == nil {
		s.Attributes = make(map[string]string)
	}
	s.Attributes[key] = value
}

// Attribute returns a free-form attribute and whether it exists.
func (s *State) Attribute(key string) (string, bool) {
	v, ok := s.Attributes[key]
	return v, ok
}

// RemoveAttribute deletes a free-form attribute.
func (s *State) RemoveAttribute(key string) {
	delete(s.Attributes, key)
}
