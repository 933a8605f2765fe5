// Package service exposes the timetable engine to callers (the CLI facade)
// through validated request/response DTOs, sitting between the handlers
// and the generator.
package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Lena958/iload/internal/dto"
	"github.com/Lena958/iload/internal/timetable"
	ierrors "github.com/Lena958/iload/pkg/errors"
)

// GeneratorService validates and runs generation requests against the
// timetable engine.
type GeneratorService struct {
	engine   *timetable.Engine
	validate *validator.Validate
	logger   *zap.Logger
}

// NewGeneratorService constructs a GeneratorService.
func NewGeneratorService(engine *timetable.Engine, logger *zap.Logger) *GeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeneratorService{engine: engine, validate: validator.New(), logger: logger}
}

// Generate validates req, runs the engine, and returns a display-friendly
// response alongside the underlying Proposal the caller may later Approve.
func (s *GeneratorService) Generate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, *timetable.Proposal, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, ierrors.Wrap(err, ierrors.ErrInputInvalid.Code, ierrors.ErrInputInvalid.Status, ierrors.ErrInputInvalid.Message)
	}

	collector := &timetable.DiagnosticsCollector{}
	proposal, err := s.engine.Run(ctx, req.ToSnapshotRequest(), collector)
	if err != nil {
		s.logger.Error("generation run failed", zap.Error(err), zap.Int("diagnostics", len(collector.Records())))
		return diagnosticsOnlyResponse(collector), nil, err
	}

	resp := &dto.GenerateResponse{
		RunID:           proposal.RunID,
		SubjectsPlaced:  len(proposal.Assignment),
		SessionsCreated: len(proposal.Diff.ToInsert),
		NodesExplored:   proposal.Nodes,
		Diagnostics:     toDiagnosticViews(collector.Records()),
	}
	s.logger.Info("generation run succeeded",
		zap.String("run_id", proposal.RunID),
		zap.Int("subjects_placed", resp.SubjectsPlaced),
		zap.Int("nodes_explored", resp.NodesExplored))
	return resp, proposal, nil
}

// Approve commits a Proposal a caller has accepted.
func (s *GeneratorService) Approve(ctx context.Context, proposal *timetable.Proposal) error {
	if err := s.engine.Approve(ctx, proposal); err != nil {
		return fmt.Errorf("approve proposal %s: %w", proposal.RunID, err)
	}
	return nil
}

func diagnosticsOnlyResponse(collector *timetable.DiagnosticsCollector) *dto.GenerateResponse {
	return &dto.GenerateResponse{Diagnostics: toDiagnosticViews(collector.Records())}
}

func toDiagnosticViews(records []timetable.DiagnosticRecord) []dto.DiagnosticView {
	out := make([]dto.DiagnosticView, 0, len(records))
	for _, r := range records {
		out = append(out, dto.DiagnosticView{Kind: string(r.Kind), SubjectID: r.SubjectID, Message: r.Message})
	}
	return out
}
