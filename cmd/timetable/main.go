// Command timetable generates and inspects subject schedules: it loads
// unplaced subjects, runs the constraint solver, and either commits the
// result or reports why no schedule could be found.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Lena958/iload/internal/dto"
	"github.com/Lena958/iload/internal/repository"
	"github.com/Lena958/iload/internal/service"
	"github.com/Lena958/iload/internal/timetable"
	"github.com/Lena958/iload/pkg/config"
	"github.com/Lena958/iload/pkg/database"
	ierrors "github.com/Lena958/iload/pkg/errors"
	"github.com/Lena958/iload/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Error("connect database", zap.Error(err))
		return 1
	}
	defer db.Close()

	repo := repository.NewTimetableRepository(db)
	conflictStore := repository.NewConflictStore(db)
	metrics := timetable.NewMetrics(nil)
	engine := timetable.NewEngine(repo, repo, repo, log, metrics, cfg.Timetable.GeneratorWorkers)
	generatorSvc := service.NewGeneratorService(engine, log)
	conflictSvc := service.NewConflictService(repo, conflictStore, log)

	root := &cobra.Command{
		Use:   "timetable",
		Short: "Generate and inspect weekly subject schedules.",
	}
	root.AddCommand(newGenerateCmd(generatorSvc, cfg))
	root.AddCommand(newConflictsCmd(conflictSvc))
	root.AddCommand(newApproveCmd(engine))
	root.AddCommand(newResolveCmd(conflictSvc))

	if err := root.Execute(); err != nil {
		return exitCodeFor(err)
	}
	return 0
}

func newGenerateCmd(svc *service.GeneratorService, cfg *config.Config) *cobra.Command {
	var req dto.GenerateRequest
	var autoApprove bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a schedule for every unplaced subject in a period.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			resp, proposal, err := svc.Generate(ctx, req)
			if err != nil {
				printDiagnostics(resp)
				return err
			}

			fmt.Printf("run %s: placed %d subjects, %d sessions, %d search nodes\n",
				resp.RunID, resp.SubjectsPlaced, resp.SessionsCreated, resp.NodesExplored)
			printDiagnostics(resp)

			if !autoApprove {
				fmt.Println("proposal not committed; re-run with --approve to persist it")
				return nil
			}
			if err := svc.Approve(ctx, proposal); err != nil {
				return err
			}
			fmt.Println("proposal committed")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Semester, "semester", "", "semester identifier")
	cmd.Flags().StringVar(&req.SchoolYear, "school-year", "", "school year identifier")
	cmd.Flags().IntVar(&req.WindowStart, "window-start", cfg.Timetable.WindowStart, "scheduling window start, minutes since midnight")
	cmd.Flags().IntVar(&req.WindowEnd, "window-end", cfg.Timetable.WindowEnd, "scheduling window end, minutes since midnight")
	cmd.Flags().Int64Var(&req.Seed, "seed", cfg.Timetable.Seed, "deterministic shuffle seed")
	cmd.Flags().IntVar(&req.NodeBudget, "node-budget", cfg.Timetable.NodeBudget, "search node budget, 0 for unbounded")
	cmd.Flags().IntVar(&req.DomainCap, "domain-cap", cfg.Timetable.DomainCap, "per-subject candidate cap, 0 for unbounded")
	cmd.Flags().IntVar(&req.AC3TrimThreshold, "ac3-trim-threshold", cfg.Timetable.AC3TrimThreshold, "domain size above which AC-3 trims, 0 to disable")
	cmd.Flags().BoolVar(&autoApprove, "approve", false, "commit the proposal immediately if search succeeds")

	return cmd
}

func newConflictsCmd(svc *service.ConflictService) *cobra.Command {
	var req dto.ConflictsRequest

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Detect and record instructor/room double-bookings for a period.",
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := svc.Detect(context.Background(), req)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("no conflicts found")
				return nil
			}
			for _, v := range views {
				fmt.Printf("[%s] %s <-> %s: %s (%s)\n", v.Kind, v.Session1ID, v.Session2ID, v.Description, v.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Semester, "semester", "", "semester identifier")
	cmd.Flags().StringVar(&req.SchoolYear, "school-year", "", "school year identifier")

	return cmd
}

func newApproveCmd(engine *timetable.Engine) *cobra.Command {
	return &cobra.Command{
		Use:   "approve [session-id]",
		Short: "Approve one provisional session after re-checking it for conflicts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.ApproveSession(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("session %s approved\n", args[0])
			return nil
		},
	}
}

func newResolveCmd(svc *service.ConflictService) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "resolve [session1-id] [session2-id]",
		Short: "Mark a previously detected conflict as resolved.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc.Resolve(context.Background(), args[0], args[1], kind); err != nil {
				return err
			}
			fmt.Println("conflict marked resolved")
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "InstructorDoubleBook", "conflict kind: InstructorDoubleBook or RoomDoubleBook")
	return cmd
}

func printDiagnostics(resp *dto.GenerateResponse) {
	if resp == nil {
		return
	}
	for _, d := range resp.Diagnostics {
		if d.SubjectID != "" {
			fmt.Printf("  [%s] subject=%s %s\n", d.Kind, d.SubjectID, d.Message)
		} else {
			fmt.Printf("  [%s] %s\n", d.Kind, d.Message)
		}
	}
}

func exitCodeFor(err error) int {
	code := ierrors.ExitCode(err)
	if code == ierrors.ExitOK {
		return 0
	}
	return code
}
