package commons

import (
	"fmt"
)

// OpID correlates one submitted operation with its reply. Ids are chosen by
// the caller, never interpreted by the set, and only required to round-trip.
type OpID int64

// Reply is what the set delivers to the requester channel of a submitted
// operation: exactly one Reply per operation, carrying the operation's id.
// Arrival order across operations is unconstrained; reply contents are what
// a sequential execution of the submissions would have produced.
type Reply interface {
	OperationID() OpID
}

// OperationFinished acknowledges an Insert or Remove. Both always succeed:
// re-inserting a member and removing a non-member are acknowledged the same
// way.
type OperationFinished struct {
	ID OpID
}

func (r OperationFinished) OperationID() OpID { return r.ID }

func (r OperationFinished) String() string {
	return fmt.Sprintf("OperationFinished(%d)", r.ID)
}

// ContainsResult answers a Contains lookup.
type ContainsResult struct {
	ID    OpID
	Found bool
}

func (r ContainsResult) OperationID() OpID { return r.ID }

func (r ContainsResult) String() string {
	return fmt.Sprintf("ContainsResult(%d,%t)", r.ID, r.Found)
}
