package service

import (
	"context"
	"errors"

	"enci/internal/dto"
	"enci/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationService interface {
	Listar(ctx context.Context, recipientID uuid.UUID, limit int) ([]dto.NotificationResponse, error)
	ContarNoLeidas(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarcarLeida(ctx context.Context, id uint, recipientID uuid.UUID) error
	MarcarTodasLeidas(ctx context.Context, recipientID uuid.UUID) error
	Eliminar(ctx context.Context, id uint, recipientID uuid.UUID) error
	EliminarTodas(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) Listar(ctx context.Context, recipientID uuid.UUID, limit int) ([]dto.NotificationResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 30
	}
	notes, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.NotificationResponse, len(notes))
	for i, n := range notes {
		resp[i] = dto.NotificationResponse{
			ID:        n.ID,
			Verb:      n.Verb,
			URL:       n.URL,
			Unread:    n.Unread,
			CreatedAt: n.CreatedAt,
		}
		if n.ActorID != nil {
			id := n.ActorID.String()
			resp[i].ActorID = &id
		}
	}
	return resp, nil
}

func (s *notificationService) ContarNoLeidas(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *notificationService) MarcarLeida(ctx context.Context, id uint, recipientID uuid.UUID) error {
	return traducirNoEncontrado(s.repo.MarkRead(ctx, id, recipientID))
}

func (s *notificationService) MarcarTodasLeidas(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) Eliminar(ctx context.Context, id uint, recipientID uuid.UUID) error {
	return traducirNoEncontrado(s.repo.Delete(ctx, id, recipientID))
}

func (s *notificationService) EliminarTodas(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repo.DeleteAll(ctx, recipientID)
}

func traducirNoEncontrado(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoEncontrado
	}
	return err
}
