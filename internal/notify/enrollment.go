package notify

import (
	"context"
	"errors"
	"fmt"

	"business-console/internal/common/aws"
	"business-console/internal/common/config"
	"business-console/internal/common/logger"
)

const EventBusinessEnrolled = "business.enrolled"

// Enrollment describes a completed onboarding.
type Enrollment struct {
	ApplicantID  int64  `json:"applicant_id"`
	BusinessID   int64  `json:"business_id"`
	BusinessName string `json:"business_name"`
	AdminID      int64  `json:"admin_id"`
	AdminName    string `json:"admin_name"`
	AdminEmail   string `json:"admin_email"`
	AdminPhone   string `json:"admin_phone"`
}

type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event string, payload interface{}) (string, error)
}

// EnrollmentNotifier e-mails the new super admin and publishes an
// enrollment event. Either channel may be nil.
type EnrollmentNotifier struct {
	email  EmailSender
	events EventPublisher
	logger logger.Logger
}

func NewEnrollmentNotifier(email EmailSender, events EventPublisher, log logger.Logger) *EnrollmentNotifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &EnrollmentNotifier{email: email, events: events, logger: log}
}

// NewEnrollmentNotifierFromConfig returns nil when neither SES nor SNS is
// enabled.
func NewEnrollmentNotifierFromConfig(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*EnrollmentNotifier, error) {
	var email EmailSender
	var events EventPublisher

	if cfg.AWS.SES.Enabled {
		client, err := aws.NewSESClient(ctx, cfg.AWS.Region, cfg.AWS.SES.FromEmail)
		if err != nil {
			return nil, err
		}
		email = client
	}
	if cfg.AWS.SNS.Enabled {
		client, err := aws.NewSNSClient(ctx, cfg.AWS.Region, cfg.AWS.SNS.TopicARN)
		if err != nil {
			return nil, err
		}
		events = client
	}
	if email == nil && events == nil {
		return nil, nil
	}
	return NewEnrollmentNotifier(email, events, log), nil
}

func (n *EnrollmentNotifier) Enrolled(ctx context.Context, e Enrollment) error {
	var errs []error

	if n.email != nil && e.AdminEmail != "" {
		subject := fmt.Sprintf("Your business account for %s is ready", e.BusinessName)
		body := fmt.Sprintf(
			"Hello %s,\n\nA business account has been created for %s and you have been added as its super admin.\n"+
				"Some business details were filled with placeholders and are marked for review.\n",
			e.AdminName, e.BusinessName,
		)
		id, err := n.email.SendText(ctx, e.AdminEmail, subject, body)
		if err != nil {
			errs = append(errs, err)
		} else {
			n.logger.Info("Enrollment e-mail sent", map[string]interface{}{
				"businessId": e.BusinessID,
				"messageId":  id,
			})
		}
	}

	if n.events != nil {
		id, err := n.events.PublishEvent(ctx, EventBusinessEnrolled, e)
		if err != nil {
			errs = append(errs, err)
		} else {
			n.logger.Info("Enrollment event published", map[string]interface{}{
				"businessId": e.BusinessID,
				"messageId":  id,
			})
		}
	}

	return errors.Join(errs...)
}
