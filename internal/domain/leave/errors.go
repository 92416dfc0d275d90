package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request has already been processed")
	ErrOnlyPendingCancellable       = errors.New("can only cancel pending leave requests")
	ErrNotRequestOwner              = errors.New("not authorized to access this leave request")
	ErrCascadeNotApplicable         = errors.New("attendance cascade only applies to approved leave requests")
)
