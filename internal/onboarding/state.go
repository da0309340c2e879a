// Package onboarding turns an approved applicant into a live business with
// a super-admin account.
package onboarding

import (
	"fmt"

	"business-console/internal/common/errors"
	"business-console/internal/models"
)

// Status is the applicant lifecycle: Pending -> Approved -> Enrolled.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusEnrolled Status = "enrolled"
)

func StatusOf(a models.Applicant) Status {
	switch {
	case a.Enrolled.Bool():
		return StatusEnrolled
	case a.Approved.Bool():
		return StatusApproved
	default:
		return StatusPending
	}
}

// Change is a requested toggle on an applicant.
type Change int

const (
	Approve Change = iota
	Unapprove
	Enroll
	Unenroll
)

func (c Change) String() string {
	switch c {
	case Approve:
		return "approve"
	case Unapprove:
		return "unapprove"
	case Enroll:
		return "enroll"
	case Unenroll:
		return "unenroll"
	}
	return fmt.Sprintf("change(%d)", int(c))
}

// CheckTransition rejects toggles that would break the lifecycle. Approving
// never enrolls, and enrollment cannot be undone from the console.
func CheckTransition(a models.Applicant, c Change) error {
	status := StatusOf(a)
	switch c {
	case Approve:
		return nil
	case Unapprove:
		if status == StatusEnrolled {
			return errors.NewInvalidTransitionError(fmt.Sprintf("Applicant for business %s is already enrolled and cannot be unapproved.", a.BusinessName))
		}
		return nil
	case Enroll:
		switch status {
		case StatusPending:
			return errors.NewInvalidTransitionError(fmt.Sprintf("Applicant for business %s must be approved before enrolling.", a.BusinessName))
		case StatusEnrolled:
			return errors.NewInvalidTransitionError(fmt.Sprintf("Applicant for business %s is already enrolled.", a.BusinessName))
		}
		return nil
	case Unenroll:
		return errors.NewInvalidTransitionError(fmt.Sprintf("Applicant for business %s cannot be unenrolled.", a.BusinessName))
	}
	return errors.NewInvalidTransitionError(fmt.Sprintf("unknown change %s", c))
}
