package availability

import "errors"

// ErrInvalidRule is returned when a rule or override is malformed. Invalid
// definitions are rejected eagerly and never stored.
var ErrInvalidRule = errors.New("invalid availability rule")
