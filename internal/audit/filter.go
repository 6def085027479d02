package audit

import "time"

// Filter narrows an audit trail listing. Zero fields match everything.
type Filter struct {
	Action string
	Entity string
	From   *time.Time
	To     *time.Time

	Limit  int
	Offset int
}
