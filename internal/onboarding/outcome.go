package onboarding

import (
	"fmt"
	"time"

	"business-console/internal/models"
	"business-console/internal/notify"
)

const (
	StepEnrollApplicant = "enroll-applicant"
	StepCreateBusiness  = "create-business"
	StepCreateAdmin     = "create-admin"
)

// StepResult records one pipeline step. Status is the backend HTTP status,
// zero when the request never completed.
type StepResult struct {
	Step      string        `json:"step"`
	Status    int           `json:"status"`
	OK        bool          `json:"ok"`
	Message   string        `json:"message,omitempty"`
	Err       error         `json:"-"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Outcome is the full record of one onboarding run. Steps that completed
// before a failure stay completed.
type Outcome struct {
	Applicant     models.Applicant
	Steps         []StepResult
	Business      *models.Business
	Admin         *models.BusinessAdmin
	Notifications []notify.Notification
}

func (o *Outcome) OK() bool {
	if len(o.Steps) == 0 {
		return false
	}
	for _, s := range o.Steps {
		if !s.OK {
			return false
		}
	}
	return o.Admin != nil
}

// Failed returns the step that stopped the pipeline, if any.
func (o *Outcome) Failed() *StepResult {
	for i := range o.Steps {
		if !o.Steps[i].OK {
			return &o.Steps[i]
		}
	}
	return nil
}

// RedirectPath is where the browser goes after the run.
func (o *Outcome) RedirectPath() string {
	if o.OK() && o.Business != nil {
		return fmt.Sprintf("/businesses/show/%d", o.Business.ID)
	}
	return ""
}

func (o *Outcome) status() string {
	if f := o.Failed(); f != nil {
		return f.Step
	}
	return "completed"
}

func (o *Outcome) enrollment() notify.Enrollment {
	e := notify.Enrollment{
		ApplicantID:  o.Applicant.ID,
		BusinessName: o.Applicant.BusinessName,
	}
	if o.Business != nil {
		e.BusinessID = o.Business.ID
	}
	if o.Admin != nil {
		e.AdminID = o.Admin.ID
		e.AdminName = o.Admin.Name
		e.AdminEmail = o.Admin.Email
		e.AdminPhone = o.Admin.Phone
	}
	return e
}
