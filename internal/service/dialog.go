package service

import (
	"context"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
)

// DialogService keeps practice dialogs
type DialogService struct {
	dialogs  repository.DialogRepository
	registry *repository.Registry
}

// NewDialogService creates a new dialog service
func NewDialogService(dialogs repository.DialogRepository, registry *repository.Registry) *DialogService {
	return &DialogService{dialogs: dialogs, registry: registry}
}

// Start opens a dialog for user with optional opening messages
func (s *DialogService) Start(ctx context.Context, user domain.Ref, messages ...domain.DialogMessage) (*domain.Dialog, error) {
	d, err := domain.NewDialog(user, messages...)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, user); err != nil {
		return nil, err
	}
	if err := s.dialogs.CreateDialog(ctx, d); err != nil {
		return nil, fmt.Errorf("create dialog: %w", err)
	}
	return d, nil
}

// Get returns a dialog by id
func (s *DialogService) Get(ctx context.Context, id uuid.UUID) (*domain.Dialog, error) {
	return s.dialogs.GetDialog(ctx, id)
}

// Append adds messages to the end of a dialog, in order
func (s *DialogService) Append(ctx context.Context, id uuid.UUID, messages ...domain.DialogMessage) (*domain.Dialog, error) {
	d, err := s.dialogs.GetDialog(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Append(messages...); err != nil {
		return nil, err
	}
	if err := s.dialogs.UpdateDialog(ctx, d); err != nil {
		return nil, fmt.Errorf("update dialog %s: %w", id, err)
	}
	return d, nil
}
