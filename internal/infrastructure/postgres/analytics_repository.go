package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Freight-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para los KPIs del dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetOTIFCounts cuenta entregas del período por resultado OTIF y los embarques vivos en riesgo.
// MET cuenta para a tiempo y completo; LATE solo completo; SHORT solo a tiempo.
func (r *AnalyticsRepo) GetOTIFCounts(ctx context.Context, companyID string, from, to time.Time) (repository.OTIFCounts, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE status = 'DELIVERED' AND delivered_at BETWEEN $2 AND $3)                                   AS delivered,
	    COUNT(*) FILTER (WHERE status = 'DELIVERED' AND delivered_at BETWEEN $2 AND $3 AND otif_result IN ('MET','SHORT')) AS on_time,
	    COUNT(*) FILTER (WHERE status = 'DELIVERED' AND delivered_at BETWEEN $2 AND $3 AND otif_result IN ('MET','LATE'))  AS in_full,
	    COUNT(*) FILTER (WHERE status = 'DELIVERED' AND delivered_at BETWEEN $2 AND $3 AND otif_result = 'MET')            AS otif,
	    COUNT(*) FILTER (WHERE status NOT IN ('DELIVERED','CANCELLED') AND otif_result = 'AT_RISK')                       AS at_risk
	FROM shipments
	WHERE company_id = $1`

	var c repository.OTIFCounts
	if err := r.q.QueryRow(ctx, query, companyID, from, to).Scan(&c.Delivered, &c.OnTime, &c.InFull, &c.OTIF, &c.AtRisk); err != nil {
		return c, fmt.Errorf("analytics.GetOTIFCounts: %w", err)
	}
	return c, nil
}

// GetRFQCounts cuenta los RFQs creados en el período y los decididos.
func (r *AnalyticsRepo) GetRFQCounts(ctx context.Context, companyID string, from, to time.Time) (repository.RFQCounts, error) {
	const query = `
	SELECT
	    COUNT(*)                                                             AS total,
	    COUNT(*) FILTER (WHERE status = 'ACCEPTED')                          AS accepted,
	    COUNT(*) FILTER (WHERE status IN ('ACCEPTED','REJECTED','EXPIRED'))  AS decided
	FROM rfqs
	WHERE company_id = $1 AND created_at BETWEEN $2 AND $3`

	var c repository.RFQCounts
	if err := r.q.QueryRow(ctx, query, companyID, from, to).Scan(&c.Total, &c.Accepted, &c.Decided); err != nil {
		return c, fmt.Errorf("analytics.GetRFQCounts: %w", err)
	}
	return c, nil
}

// GetRevenue suma lo facturado (emitido, pagado o vencido) por moneda.
func (r *AnalyticsRepo) GetRevenue(ctx context.Context, companyID string, from, to time.Time) ([]repository.CurrencyAmount, error) {
	const query = `
	SELECT currency, COALESCE(SUM(grand_total), 0)
	FROM invoices
	WHERE company_id = $1
	  AND status IN ('ISSUED','PAID','OVERDUE')
	  AND issue_date BETWEEN $2 AND $3
	GROUP BY currency
	ORDER BY currency`
	return r.amounts(ctx, "analytics.GetRevenue", query, companyID, from, to)
}

// GetOverdueReceivables suma la cartera vencida por moneda.
func (r *AnalyticsRepo) GetOverdueReceivables(ctx context.Context, companyID string) ([]repository.CurrencyAmount, error) {
	const query = `
	SELECT currency, COALESCE(SUM(grand_total), 0)
	FROM invoices
	WHERE company_id = $1 AND status = 'OVERDUE'
	GROUP BY currency
	ORDER BY currency`
	return r.amounts(ctx, "analytics.GetOverdueReceivables", query, companyID)
}

func (r *AnalyticsRepo) amounts(ctx context.Context, op, query string, args ...any) ([]repository.CurrencyAmount, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []repository.CurrencyAmount
	for rows.Next() {
		var a repository.CurrencyAmount
		if err := rows.Scan(&a.Currency, &a.Amount); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
