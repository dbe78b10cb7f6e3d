package correction

import "errors"

var (
	ErrCorrectionNotFound        = errors.New("correction request not found")
	ErrCorrectionAlreadyDecided  = errors.New("correction request has already been decided")
	ErrCorrectionNotApproved     = errors.New("correction request is not approved")
	ErrNothingProposed           = errors.New("correction proposes no changes")
	ErrNotRequestersManager      = errors.New("only the requester's manager may decide this correction")
	ErrAdminRatificationRequired = errors.New("manager approval requires admin ratification")
)
