package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"invoiceguard/internal/domain"
)

// Finding slots, fixed so concurrent evaluators produce a deterministic
// aggregate order: seller GSTIN, buyer GSTIN, IRN, mandate, per-line HSN,
// withholding, then engine-level cross-checks.
const (
	slotSellerGSTIN = iota
	slotBuyerGSTIN
	slotIRN
	slotMandate
	slotHSN
	slotWithholding
	slotCount
)

// Validate runs every evaluator against the invoice and aggregates their
// findings into a Verdict. Evaluators are independent and run concurrently
// under one overall deadline; a source that cannot answer in time yields a
// CHECK_INCOMPLETE warning, never a hang. The returned error is reserved for
// run-level faults; every classified failure is a finding inside the Verdict.
func (v *Validator) Validate(ctx context.Context, inv domain.RawInvoice) (*domain.Verdict, error) {
	if inv.SellerGSTIN == "" {
		return nil, errors.New("invoice has no seller GSTIN")
	}
	if inv.InvoiceDate.IsZero() {
		return nil, errors.New("invoice has no date")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, v.deadline)
	defer cancel()

	slots := make([][]domain.Finding, slotCount)
	g, gctx := errgroup.WithContext(ctx)

	run := func(slot int, check string, fn func(context.Context) ([]domain.Finding, error)) {
		g.Go(func() error {
			checkStart := time.Now()
			fs, err := fn(gctx)
			v.metrics.ObserveCheckLatency(check, time.Since(checkStart))
			if err != nil {
				return fmt.Errorf("%s check: %w", check, err)
			}
			slots[slot] = fs
			return nil
		})
	}

	run(slotSellerGSTIN, "seller_gstin", func(ctx context.Context) ([]domain.Finding, error) {
		return v.evaluateGSTIN(ctx, inv.SellerGSTIN, "seller", inv.InvoiceDate)
	})
	if inv.BuyerGSTIN != "" {
		run(slotBuyerGSTIN, "buyer_gstin", func(ctx context.Context) ([]domain.Finding, error) {
			return v.evaluateGSTIN(ctx, inv.BuyerGSTIN, "buyer", inv.InvoiceDate)
		})
	}
	run(slotIRN, "irn", func(ctx context.Context) ([]domain.Finding, error) {
		return v.evaluateIRN(ctx, inv)
	})
	run(slotMandate, "mandate", func(ctx context.Context) ([]domain.Finding, error) {
		return v.evaluateMandate(ctx, inv)
	})
	run(slotHSN, "hsn_rates", func(ctx context.Context) ([]domain.Finding, error) {
		return v.evaluateHSNRates(ctx, inv)
	})
	run(slotWithholding, "withholding", func(ctx context.Context) ([]domain.Finding, error) {
		return v.evaluateWithholding(ctx, inv)
	})

	if err := g.Wait(); err != nil {
		// Run-level fault: no Verdict is better than a falsely confident one.
		if v.logger != nil {
			v.logger.Error("validation run aborted", "invoice", inv.Ref(), "error", err)
		}
		return nil, err
	}

	findings := make([]domain.Finding, 0, 8)
	for _, fs := range slots {
		findings = append(findings, fs...)
	}
	findings = append(findings, crossChecks(inv)...)

	verdict := domain.NewVerdict(inv.Ref(), findings, time.Now())

	for _, f := range findings {
		v.metrics.IncrementFinding(f.RuleID, string(f.Severity))
	}
	v.metrics.IncrementVerdict(string(verdict.Status))
	v.metrics.ObserveValidateLatency(time.Since(start))
	if v.logger != nil {
		v.logger.Info("invoice validated",
			"invoice", inv.Ref(),
			"run_id", verdict.RunID,
			"status", verdict.Status,
			"findings", len(findings),
			"duration", time.Since(start),
		)
	}
	return verdict, nil
}
