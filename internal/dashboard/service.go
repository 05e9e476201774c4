// Package dashboard aggregates store-wide statistics for the admin overview.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JawadErfani01/computer-management-system/internal/jalali"
)

// Stats is the dashboard payload.
type Stats struct {
	TotalProducts  int64          `json:"totalProducts"`
	TotalCustomers int64          `json:"totalCustomers"`
	TotalSales     float64        `json:"totalSales"`
	MonthlySales   []MonthlyTotal `json:"monthlySales"`
}

// MonthlyTotal is one month bucket of the trailing sales series.
type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// SaleTotal is a raw (date, amount) pair the service buckets into months.
type SaleTotal struct {
	SaleDate time.Time
	Amount   float64
}

// Repository reads the aggregates from the store.
type Repository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	SaleTotalsSince(ctx context.Context, from time.Time) ([]SaleTotal, error)
}

const trailingMonths = 6

// Service computes dashboard stats, serving them from the cache when warm.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

// NewService builds Service. cache may be nil.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Stats returns the aggregate counts and the trailing six month sales
// series, oldest month first. TotalSales is the sum of that series.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "stats")
	if err != nil {
		return nil, fmt.Errorf("build cache key: %w", err)
	}

	var stats Stats
	err = s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (any, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Service) compute(ctx context.Context) (*Stats, error) {
	today := jalali.FromTime(s.now().UTC())
	start := monthsBack(today, trailingMonths-1)
	windowStart := jalali.Date{Year: start.Year, Month: start.Month, Day: 1}.Time(time.UTC)

	stats := &Stats{}
	var totals []SaleTotal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalProducts, err = s.repo.CountProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalCustomers, err = s.repo.CountCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.repo.SaleTotalsSince(gctx, windowStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard aggregates: %w", err)
	}

	stats.MonthlySales = bucketByMonth(today, totals)
	for _, m := range stats.MonthlySales {
		stats.TotalSales += m.Total
	}
	return stats, nil
}

// bucketByMonth folds raw sale totals into six calendar month buckets ending
// at the month of today, zero-filling empty months.
func bucketByMonth(today jalali.Date, totals []SaleTotal) []MonthlyTotal {
	series := make([]MonthlyTotal, trailingMonths)
	index := make(map[string]int, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		month := monthsBack(today, trailingMonths-1-i)
		label := fmt.Sprintf("%04d/%02d", month.Year, month.Month)
		series[i] = MonthlyTotal{Month: label}
		index[label] = i
	}

	for _, t := range totals {
		d := jalali.FromTime(t.SaleDate.UTC())
		label := fmt.Sprintf("%04d/%02d", d.Year, d.Month)
		if i, ok := index[label]; ok {
			series[i].Total += t.Amount
		}
	}
	return series
}

// monthsBack steps n calendar months back from d, clamping to day 1.
func monthsBack(d jalali.Date, n int) jalali.Date {
	year, month := d.Year, d.Month-n
	for month < 1 {
		month += 12
		year--
	}
	return jalali.Date{Year: year, Month: month, Day: 1}
}
