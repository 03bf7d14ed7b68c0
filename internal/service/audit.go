package service

import (
	"context"
	"errors"
	"fmt"

	"glossa/internal/domain"
	"glossa/internal/repository"

	"go.uber.org/zap"
)

const auditBatchSize = 200

// AuditReport summarises one integrity scan. Failed counts reference
// checks that errored for a reason other than a missing entity.
type AuditReport struct {
	Checked  int
	Failed   int
	Dangling map[domain.Ref][]domain.Ref
}

// AuditService scans stored records for references to missing entities
type AuditService struct {
	suggestions repository.SuggestionRepository
	vocabulary  repository.VocabularyRepository
	registry    *repository.Registry
	logger      *zap.Logger
}

// NewAuditService creates a new integrity audit service
func NewAuditService(store *repository.Store, registry *repository.Registry, logger *zap.Logger) *AuditService {
	return &AuditService{
		suggestions: store.Suggestions,
		vocabulary:  store.Vocabulary,
		registry:    registry,
		logger:      logger,
	}
}

// Scan walks every suggestion and vocabulary entry and logs each dangling
// reference. The report maps an owner to the references it cannot resolve.
// Checks that fail outright are counted in the report and returned joined,
// so a store outage never reads as a clean scan.
func (s *AuditService) Scan(ctx context.Context) (*AuditReport, error) {
	s.logger.Info("Starting integrity scan")

	report := &AuditReport{Dangling: make(map[domain.Ref][]domain.Ref)}
	var failures []error
	check := func(owner domain.Ref, refs []domain.Ref) {
		report.Checked++
		dangling, failed := repository.Partition(s.registry.Check(ctx, refs...))
		for _, missing := range dangling {
			s.logger.Warn("Dangling reference",
				zap.Stringer("owner", owner),
				zap.Stringer("ref", missing),
			)
			report.Dangling[owner] = append(report.Dangling[owner], missing)
		}
		for _, err := range failed {
			s.logger.Error("Failed to check reference",
				zap.Stringer("owner", owner),
				zap.Error(err),
			)
			report.Failed++
			failures = append(failures, fmt.Errorf("check %s: %w", owner, err))
		}
	}

	for offset := 0; ; offset += auditBatchSize {
		batch, err := s.suggestions.ListSuggestions(ctx, "", auditBatchSize, offset)
		if err != nil {
			s.logger.Error("Failed to list suggestions for audit", zap.Error(err))
			return nil, fmt.Errorf("list suggestions: %w", err)
		}
		for i := range batch {
			check(batch[i].Ref(), batch[i].References())
		}
		if len(batch) < auditBatchSize {
			break
		}
	}

	for offset := 0; ; offset += auditBatchSize {
		batch, err := s.vocabulary.ListVocabulary(ctx, auditBatchSize, offset)
		if err != nil {
			s.logger.Error("Failed to list vocabulary for audit", zap.Error(err))
			return nil, fmt.Errorf("list vocabulary: %w", err)
		}
		for i := range batch {
			check(batch[i].Ref(), batch[i].References())
		}
		if len(batch) < auditBatchSize {
			break
		}
	}

	s.logger.Info("Integrity scan completed",
		zap.Int("checked", report.Checked),
		zap.Int("failed", report.Failed),
		zap.Int("owners_with_dangling_refs", len(report.Dangling)),
	)
	if len(failures) > 0 {
		return report, fmt.Errorf("integrity scan: %d reference checks failed: %w", report.Failed, errors.Join(failures...))
	}
	return report, nil
}
