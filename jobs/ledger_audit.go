package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/JawadErfani01/computer-management-system/internal/jobs"
)

// totalTolerance absorbs float accumulation noise when comparing a stored
// total against the recomputed line sum.
const totalTolerance = 1e-6

// LedgerAuditJob recomputes each sale's line sum and reports sales whose
// stored total drifted. Drift means a write path skipped the workflow and
// needs manual reconciliation.
type LedgerAuditJob struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewLedgerAuditJob constructs the audit job. metrics may be nil.
func NewLedgerAuditJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerAuditJob {
	return &LedgerAuditJob{pool: pool, logger: logger, metrics: metrics}
}

// Handle processes TaskSalesLedgerAudit tasks.
func (j *LedgerAuditJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track("ledger_audit")

	var payload LedgerAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}

	sales, err := j.loadSales(ctx, payload.WindowDays)
	if err != nil {
		return tracker.End(err)
	}

	mismatches := auditSales(sales)
	j.metrics.AddLedgerMismatches(len(mismatches))
	for _, m := range mismatches {
		j.logger.Warn("sale total drifted from line sum",
			slog.String("saleId", m.SaleID.String()),
			slog.Float64("storedTotal", m.StoredTotal),
			slog.Float64("lineSum", m.LineSum),
		)
	}
	j.logger.Info("ledger audit finished",
		slog.Int("sales", len(sales)),
		slog.Int("mismatches", len(mismatches)),
	)
	return tracker.End(nil)
}

// auditedSale is one sale with its recorded total and raw line values.
type auditedSale struct {
	ID    uuid.UUID
	Total float64
	Lines []auditedLine
}

type auditedLine struct {
	Quantity    int
	PriceAtSale float64
}

// mismatch reports a sale whose stored total disagrees with its lines.
type mismatch struct {
	SaleID      uuid.UUID
	StoredTotal float64
	LineSum     float64
}

func (j *LedgerAuditJob) loadSales(ctx context.Context, windowDays int) ([]auditedSale, error) {
	query := `
SELECT s.id, s.total_amount, i.quantity, i.price_at_sale
FROM sales s
LEFT JOIN sale_items i ON i.sale_id = s.id`
	args := []any{}
	if windowDays > 0 {
		query += " WHERE s.created_at >= $1"
		args = append(args, time.Now().UTC().AddDate(0, 0, -windowDays))
	}
	query += " ORDER BY s.id"

	rows, err := j.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]auditedSale, 0)
	for rows.Next() {
		var (
			id       uuid.UUID
			total    float64
			quantity *int
			price    *float64
		)
		if err := rows.Scan(&id, &total, &quantity, &price); err != nil {
			return nil, err
		}
		if len(sales) == 0 || sales[len(sales)-1].ID != id {
			sales = append(sales, auditedSale{ID: id, Total: total})
		}
		if quantity != nil && price != nil {
			last := &sales[len(sales)-1]
			last.Lines = append(last.Lines, auditedLine{Quantity: *quantity, PriceAtSale: *price})
		}
	}
	return sales, rows.Err()
}

func auditSales(sales []auditedSale) []mismatch {
	mismatches := make([]mismatch, 0)
	for _, sale := range sales {
		var sum float64
		for _, line := range sale.Lines {
			sum += line.PriceAtSale * float64(line.Quantity)
		}
		if math.Abs(sum-sale.Total) > totalTolerance {
			mismatches = append(mismatches, mismatch{
				SaleID:      sale.ID,
				StoredTotal: sale.Total,
				LineSum:     sum,
			})
		}
	}
	return mismatches
}
