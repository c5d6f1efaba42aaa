// Package notify implements best-effort side effects (internal notifications
// and email dispatch) with an explicit outcome type instead of silent error
// suppression: callers get a Result they can log or assert on, and nothing
// here ever propagates a failure back into the primary transaction.
package notify

import (
	"context"
	"fmt"

	"enci/internal/model"
	"enci/internal/repository"
	"enci/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Result is the typed outcome of one best-effort delivery attempt.
type Result struct {
	Delivered bool
	Reason    string
}

func ok() Result              { return Result{Delivered: true} }
func failed(err error) Result { return Result{Delivered: false, Reason: err.Error()} }

// Notifier creates notification rows synchronously and enqueues email jobs
// for async delivery. The email worker records the final delivery outcome in
// the audit trail.
type Notifier struct {
	notes      repository.NotificationRepository
	dispatcher *worker.Dispatcher
}

func New(notes repository.NotificationRepository, dispatcher *worker.Dispatcher) *Notifier {
	return &Notifier{notes: notes, dispatcher: dispatcher}
}

// StudentRegistered notifies the docente that a student redeemed one of
// their invitation codes. Called after the registration transaction has
// committed; failure is returned as a Result, never as an error.
func (n *Notifier) StudentRegistered(ctx context.Context, docente, student *model.Usuario, code string) Result {
	note := &model.Notification{
		RecipientID:  docente.ID,
		ActorID:      &student.ID,
		Verb:         model.VerbStudentRegistered,
		TargetUserID: &student.ID,
		Unread:       true,
	}
	if err := n.notes.Create(ctx, note); err != nil {
		log.Warn().Err(err).
			Str("docente", docente.Username).
			Str("student", student.Username).
			Msg("notify: failed to create student_registered notification")
		return failed(err)
	}

	if docente.Email != nil && *docente.Email != "" {
		body := fmt.Sprintf(
			"Hola %s,\n\nEl estudiante %s se registró usando tu código %s y está pendiente de activación.\n"+
				"Ingresa al dashboard para revisarlo.\n\nSaludos.",
			docente.NombreCompleto(), student.NombreCompleto(), code,
		)
		n.enqueueEmail(ctx, *docente.Email, docente.ID,
			fmt.Sprintf("Nuevo estudiante registrado: %s", student.Username), body)
	}
	return ok()
}

// DocenteRegistered notifies every admin that a new docente profile was
// created (explicit call replacing the old implicit post-save hook).
// Returns one Result per admin so callers and tests can see partial failures.
func (n *Notifier) DocenteRegistered(ctx context.Context, admins []model.Usuario, docente *model.Usuario) []Result {
	results := make([]Result, 0, len(admins))
	for i := range admins {
		admin := &admins[i]
		note := &model.Notification{
			RecipientID:  admin.ID,
			Verb:         model.VerbDocenteRegistered,
			TargetUserID: &docente.ID,
			Unread:       true,
		}
		if err := n.notes.Create(ctx, note); err != nil {
			log.Warn().Err(err).
				Str("admin", admin.Username).
				Msg("notify: failed to create docente_registered notification")
			results = append(results, failed(err))
			continue
		}
		if admin.Email != nil && *admin.Email != "" {
			body := fmt.Sprintf(
				"Se ha registrado el docente %s (%s) y está pendiente de activación.",
				docente.NombreCompleto(), docente.Username,
			)
			n.enqueueEmail(ctx, *admin.Email, admin.ID,
				fmt.Sprintf("Nuevo docente registrado: %s", docente.Username), body)
		}
		results = append(results, ok())
	}
	return results
}

// ReferralActivated tells the student their account was activated by their
// docente. Called after the activation transaction has committed.
func (n *Notifier) ReferralActivated(ctx context.Context, student, docente *model.Usuario) Result {
	note := &model.Notification{
		RecipientID:  student.ID,
		ActorID:      &docente.ID,
		Verb:         model.VerbReferralActivated,
		TargetUserID: &student.ID,
		Unread:       true,
	}
	if err := n.notes.Create(ctx, note); err != nil {
		log.Warn().Err(err).
			Str("student", student.Username).
			Msg("notify: failed to create referral_activated notification")
		return failed(err)
	}

	if student.Email != nil && *student.Email != "" {
		body := fmt.Sprintf(
			"Hola %s,\n\nTu cuenta fue activada por %s. Ya puedes iniciar sesión.\n\nSaludos.",
			student.NombreCompleto(), docente.NombreCompleto(),
		)
		n.enqueueEmail(ctx, *student.Email, student.ID, "Tu cuenta fue activada", body)
	}
	return ok()
}

func (n *Notifier) enqueueEmail(ctx context.Context, to string, recipientID uuid.UUID, subject, body string) {
	if n.dispatcher == nil {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail:     to,
		RecipientID: recipientID.String(),
		Subject:     subject,
		Body:        body,
	}
	if err := n.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		// Queue unavailability must not surface to the caller either
		log.Error().Err(err).Str("to", to).Msg("notify: failed to enqueue email job")
	}
}
