package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"agency/internal/repositories"
	"agency/internal/services/policy"
	"agency/internal/services/reconcile"
	"agency/internal/services/status"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "reconcile [cards|policies|all]",
		Short:     "Run a status reconciliation sweep now",
		Long:      "Recompute card and policy statuses, write the ones that changed and invalidate the affected cache collections. Ctrl-C stops the sweep between records.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{reconcile.CardJobName, reconcile.PolicyJobName, "all"},
		RunE:      runReconcile,
	}
	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	scheduler, err := buildScheduler(e)
	if err != nil {
		return err
	}

	var summaries []reconcile.Summary
	if args[0] == "all" {
		summaries, err = scheduler.RunAll(ctx)
	} else {
		var sum reconcile.Summary
		sum, err = scheduler.RunNow(ctx, args[0])
		summaries = append(summaries, sum)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(summaries); encErr != nil {
		return encErr
	}
	return err
}

func buildScheduler(e *env) (*reconcile.Scheduler, error) {
	statuses := status.NewResolver(repositories.NewStatusRepository(e.db))
	policyRepo := repositories.NewPolicyRepository(e.db)
	cleaner := policy.NewService(policyRepo, repositories.NewPaymentRepository(e.db), e.cache, statuses,
		policy.WithLogger(e.log), policy.WithLocation(e.cfg.Reconcile.Location))

	opts := []reconcile.Option{
		reconcile.WithLogger(e.log),
		reconcile.WithLocation(e.cfg.Reconcile.Location),
		reconcile.WithLocker(e.cache, e.cfg.Reconcile.LeaseTTL),
	}
	scheduler := reconcile.NewScheduler(opts...)
	if err := scheduler.Register(e.cfg.Reconcile.CardSchedule,
		reconcile.NewCardJob(repositories.NewCreditCardRepository(e.db), statuses, e.cache, opts...)); err != nil {
		return nil, err
	}
	if err := scheduler.Register(e.cfg.Reconcile.PolicySchedule,
		reconcile.NewPolicyJob(policyRepo, statuses, cleaner, e.cache, opts...)); err != nil {
		return nil, err
	}
	return scheduler, nil
}
