package shuurodto

// DomainError is a caller-renderable failure. Kind is one of
// "invalid_input", "rule_violation" or "state_corruption".
type DomainError struct {
	Code    string
	Kind    string
	Message string
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "shuuro session error"
}
