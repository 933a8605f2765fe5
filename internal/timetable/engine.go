package timetable

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Lena958/iload/internal/models"
	ierrors "github.com/Lena958/iload/pkg/errors"
)

// Engine wires the loader, candidate generator, propagator, search, and
// commit boundary into one run. It holds no per-run state itself
// so one Engine can serve concurrent runs.
type Engine struct {
	loader    Loader
	committer Committer
	approver  SessionApprover
	logger    *zap.Logger
	metrics   *Metrics
	workers   int
}

// NewEngine constructs an Engine. workers <= 0 falls back to 4. approver
// may be nil if the caller never uses the single-session approve workflow.
func NewEngine(loader Loader, committer Committer, approver SessionApprover, logger *zap.Logger, metrics *Metrics, workers int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Engine{loader: loader, committer: committer, approver: approver, logger: logger, metrics: metrics, workers: workers}
}

// Proposal is the outcome of Run: a complete assignment and the diff it
// would commit, held pending a caller's Approve call.
type Proposal struct {
	RunID      string
	Assignment Assignment
	Diff       CommitDiff
	Nodes      int
}

// Run executes one full pass: load, generate, propagate, search. It never
// writes to external state; Approve does that separately, so a caller can
// inspect or reject a Proposal before anything is persisted.
func (e *Engine) Run(ctx context.Context, req SnapshotRequest, diag Diagnostics) (*Proposal, error) {
	runID := uuid.NewString()
	logger := e.logger.With(zap.String("run_id", runID))
	diag = WithMetrics(diag, e.metrics)
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RunDuration.Observe(time.Since(start).Seconds())
		}
	}()

	if req.WindowStart < 0 || req.WindowEnd <= req.WindowStart {
		return nil, ierrors.ErrInputInvalid
	}
	if req.Semester == "" || req.SchoolYear == "" {
		return nil, ierrors.ErrInputInvalid
	}

	snapshot, err := e.loader.Load(ctx, req, diag)
	if err != nil {
		return nil, ierrors.Wrap(err, ierrors.ErrBoundaryFailure.Code, ierrors.ErrBoundaryFailure.Status, ierrors.ErrBoundaryFailure.Message)
	}
	if len(snapshot.Subjects) == 0 {
		return nil, ierrors.ErrInputInvalid
	}

	subjectsByID := make(map[string]models.Subject, len(snapshot.Subjects))
	subjectIDs := make([]string, 0, len(snapshot.Subjects))
	for _, s := range snapshot.Subjects {
		subjectsByID[s.ID] = s
		subjectIDs = append(subjectIDs, s.ID)
	}

	constraints := NewConstraints(snapshot.Rooms, snapshot.RoomPrograms, snapshot.Instructors)

	logger.Info("generating candidate domains", zap.Int("subjects", len(subjectIDs)))
	domains, err := GenerateDomains(ctx, logger, e.workers, snapshot, constraints, diag)
	if err != nil {
		// Subjects left without candidates are dropped from the CSP; the
		// run fails only when no subject keeps a domain.
		subjectIDs = subjectIDs[:0]
		for subjectID, d := range domains {
			if len(d) == 0 {
				delete(domains, subjectID)
				continue
			}
			subjectIDs = append(subjectIDs, subjectID)
		}
		if len(subjectIDs) == 0 {
			logger.Warn("candidate generation left every subject with an empty domain", zap.Error(err))
			return nil, err
		}
		logger.Warn("dropping subjects with an empty domain", zap.Error(err), zap.Int("remaining", len(subjectIDs)))
	}
	if e.metrics != nil {
		total := 0
		for _, d := range domains {
			total += len(d)
		}
		e.metrics.CandidateGroupsGenerated.Add(float64(total))
	}

	neighbors := BuildNeighbors(subjectIDs)
	logger.Info("propagating arc consistency")
	if !AC3(constraints, domains, neighbors, snapshot.AC3TrimThreshold, e.metrics) {
		for subjectID, d := range domains {
			if len(d) == 0 {
				emit(ctx, diag, DiagAC3Failure, subjectID, "arc consistency propagation emptied this subject's domain")
			}
		}
		return nil, ierrors.ErrAC3Infeasible
	}

	logger.Info("starting search")
	result, err := Search(constraints, subjectsByID, snapshot.Instructors, domains, snapshot.NodeBudget)
	if e.metrics != nil && result != nil {
		e.metrics.SearchNodesExplored.Add(float64(result.NodesExplored))
	}
	if err != nil {
		kind := DiagSearchFailure
		if err == ierrors.ErrBudgetExhausted {
			kind = DiagBudgetExhausted
		}
		emit(ctx, diag, kind, "", err.Error())
		return nil, err
	}

	diff := BuildDiff(result.Assignment, snapshot.Semester, snapshot.SchoolYear)
	return &Proposal{RunID: runID, Assignment: result.Assignment, Diff: diff, Nodes: result.NodesExplored}, nil
}

// Approve commits a previously produced Proposal through the commit
// boundary. Callers that want to discard a Proposal simply
// never call Approve.
func (e *Engine) Approve(ctx context.Context, proposal *Proposal) error {
	return Commit(ctx, e.committer, proposal.Diff)
}

// ApproveSession runs the single-session approve workflow instead of committing a full Proposal.
func (e *Engine) ApproveSession(ctx context.Context, sessionID string) error {
	return ApproveSession(ctx, e.approver, sessionID)
}
