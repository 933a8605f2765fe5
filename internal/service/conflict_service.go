package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Lena958/iload/internal/dto"
	"github.com/Lena958/iload/internal/models"
	"github.com/Lena958/iload/internal/timetable"
)

// SessionReader supplies the committed sessions to scan for conflicts.
type SessionReader interface {
	Sessions(ctx context.Context, semester, schoolYear string) ([]models.Session, error)
}

// ConflictStore persists the merged conflict set.
type ConflictStore interface {
	Existing(ctx context.Context) ([]models.Conflict, error)
	Save(ctx context.Context, conflicts []models.Conflict) error
	Resolve(ctx context.Context, session1ID, session2ID string, kind models.ConflictKind) error
}

// ConflictService runs conflict detection over a committed period and
// reconciles it against previously recorded conflicts.
type ConflictService struct {
	sessions SessionReader
	store    ConflictStore
	logger   *zap.Logger
}

// NewConflictService constructs a ConflictService.
func NewConflictService(sessions SessionReader, store ConflictStore, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{sessions: sessions, store: store, logger: logger}
}

// Detect scans req's period for instructor/room double-bookings, merges
// the result against existing records so manual resolutions survive, saves
// the merged set, and returns it for display.
func (s *ConflictService) Detect(ctx context.Context, req dto.ConflictsRequest) ([]dto.ConflictView, error) {
	sessions, err := s.sessions.Sessions(ctx, req.Semester, req.SchoolYear)
	if err != nil {
		return nil, fmt.Errorf("load sessions for conflict detection: %w", err)
	}

	detected := timetable.DetectConflicts(sessions)

	existing, err := s.store.Existing(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing conflicts: %w", err)
	}
	merged := timetable.MergeConflicts(existing, detected)

	if err := s.store.Save(ctx, merged); err != nil {
		return nil, fmt.Errorf("save conflicts: %w", err)
	}

	s.logger.Info("conflict detection complete", zap.Int("sessions", len(sessions)), zap.Int("conflicts", len(merged)))
	return toConflictViews(merged), nil
}

// Resolve marks one conflict as resolved without re-running detection.
func (s *ConflictService) Resolve(ctx context.Context, session1ID, session2ID string, kind string) error {
	if err := s.store.Resolve(ctx, session1ID, session2ID, models.ConflictKind(kind)); err != nil {
		return fmt.Errorf("resolve conflict: %w", err)
	}
	return nil
}

func toConflictViews(conflicts []models.Conflict) []dto.ConflictView {
	out := make([]dto.ConflictView, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, dto.ConflictView{
			Session1ID:     c.Session1ID,
			Session2ID:     c.Session2ID,
			Kind:           string(c.Kind),
			Description:    c.Description,
			Recommendation: c.Recommendation,
			Status:         string(c.Status),
		})
	}
	return out
}
