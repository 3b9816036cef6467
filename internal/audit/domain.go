package audit

import "time"

// Entry is one recorded authorization decision. The engine itself owns no
// audit storage; entries exist because the HTTP layer chooses to log every
// gated decision.
type Entry struct {
	ID          int64     `json:"id"`
	ActorID     string    `json:"actorId"`
	Permission  string    `json:"permission"`
	Allowed     bool      `json:"allowed"`
	Reason      string    `json:"reason"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}
