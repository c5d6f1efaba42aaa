package worker

// email_worker.go
// Processes email jobs from QueueEmail and records the delivery outcome in
// the audit trail: email_sent on success, email_failed on failure. Outcomes
// never reach the user whose action triggered the email.

import (
	"context"
	"encoding/json"
	"fmt"

	"enci/internal/model"
	"enci/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Mailer is the transport used to deliver emails.
type Mailer interface {
	Send(to, subject, body string) error
}

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail     string `json:"to_email"`
	RecipientID string `json:"recipient_id"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// EmailWorker sends notification emails via SMTP.
type EmailWorker struct {
	mailer Mailer
	audit  repository.AuditRepository
}

func NewEmailWorker(mailer Mailer, audit repository.AuditRepository) *EmailWorker {
	return &EmailWorker{mailer: mailer, audit: audit}
}

// Process sends one email. A non-nil return means the pool may retry;
// after the last attempt the job lands in the DLQ.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	var target *uuid.UUID
	if id, err := uuid.Parse(payload.RecipientID); err == nil {
		target = &id
	}

	if err := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		w.record(ctx, target, model.AuditEmailFailed,
			fmt.Sprintf("Error enviando email a %s: %v", payload.ToEmail, err))
		return err
	}

	log.Info().Str("to", payload.ToEmail).Msg("email_worker: email sent")
	w.record(ctx, target, model.AuditEmailSent,
		fmt.Sprintf("Notificación enviada a %s: %s", payload.ToEmail, payload.Subject))
	return nil
}

func (w *EmailWorker) record(ctx context.Context, target *uuid.UUID, action, descr string) {
	entry := &model.AuditLog{TargetUserID: target, Action: action, Description: descr}
	if err := w.audit.Create(ctx, nil, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("email_worker: failed to write audit entry")
	}
}
