package service

import (
	"context"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommunityService handles direct messages, referrals and reports.
// Records that point a user at themselves are stored and logged with a
// warning.
type CommunityService struct {
	community repository.CommunityRepository
	registry  *repository.Registry
	logger    *zap.Logger
}

// NewCommunityService creates a new community service
func NewCommunityService(community repository.CommunityRepository, registry *repository.Registry, logger *zap.Logger) *CommunityService {
	return &CommunityService{
		community: community,
		registry:  registry,
		logger:    logger,
	}
}

// SendMessage stores a direct message between two users
func (s *CommunityService) SendMessage(ctx context.Context, sender, recipient domain.Ref, content string) (*domain.Message, error) {
	m, err := domain.NewMessage(sender, recipient, content)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, m.References()...); err != nil {
		return nil, err
	}
	if m.IsSelfReferential() {
		s.logger.Warn("User sent a message to themselves", zap.String("user_id", sender.ID.String()))
	}
	if err := s.community.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// MarkRead flags a message as read
func (s *CommunityService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.community.MarkMessageRead(ctx, id)
}

// Conversation returns the latest messages exchanged between a and b
func (s *CommunityService) Conversation(ctx context.Context, a, b uuid.UUID, limit int) ([]domain.Message, error) {
	return s.community.ListConversation(ctx, a, b, limit)
}

// Refer records that referring brought referred to the product
func (s *CommunityService) Refer(ctx context.Context, referring, referred domain.Ref) (*domain.Referral, error) {
	r, err := domain.NewReferral(referring, referred)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, r.References()...); err != nil {
		return nil, err
	}
	if r.IsSelfReferential() {
		s.logger.Warn("User referred themselves", zap.String("user_id", referring.ID.String()))
	}
	if err := s.community.CreateReferral(ctx, r); err != nil {
		return nil, fmt.Errorf("create referral: %w", err)
	}
	return r, nil
}

// Referrals lists the referrals made by a user
func (s *CommunityService) Referrals(ctx context.Context, referringID uuid.UUID) ([]domain.Referral, error) {
	return s.community.ListReferrals(ctx, referringID)
}

// Report files a report by user against reported
func (s *CommunityService) Report(ctx context.Context, user, reported domain.Ref, reason, description string) (*domain.Report, error) {
	r, err := domain.NewReport(user, reported, reason, description)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Check(ctx, r.References()...); err != nil {
		return nil, err
	}
	if user == reported {
		s.logger.Warn("User reported themselves", zap.String("user_id", user.ID.String()))
	}
	if err := s.community.CreateReport(ctx, r); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.logger.Info("Report filed",
		zap.String("report_id", r.ID.String()),
		zap.String("reported_user_id", reported.ID.String()),
	)
	return r, nil
}

// ReportsAgainst lists the reports filed against a user
func (s *CommunityService) ReportsAgainst(ctx context.Context, reportedID uuid.UUID) ([]domain.Report, error) {
	return s.community.ListReportsAgainst(ctx, reportedID)
}
