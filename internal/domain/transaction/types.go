package transaction

// Status is the lifecycle state of a purchase attempt. APPROVED, DECLINED and
// CANCELLED are terminal; the saga never transitions a transaction out of them.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusDeclined  Status = "DECLINED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusDeclined, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
