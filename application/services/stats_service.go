package services

import (
	"context"
	"math"

	"go.uber.org/zap"

	"dkcal-backend/application/ports"
	"dkcal-backend/domain/catalog"
	"dkcal-backend/domain/ledger"
	"dkcal-backend/pkg/errors"
	"dkcal-backend/pkg/utils"
)

const movingAvgWindow = 7

// MacroSeries is a daily value series with its moving average.
type MacroSeries struct {
	Values    []float64  `json:"values"`
	MovingAvg []*float64 `json:"movingAvg"`
}

// WeightSeries is the nullable weight series with moving average and linear
// trend line.
type WeightSeries struct {
	Values    []*float64 `json:"values"`
	MovingAvg []*float64 `json:"movingAvg"`
	Trend     []*float64 `json:"trend"`
}

// StatsSummary aggregates the range into headline numbers. Zero-kcal days
// count as untracked and are excluded from the averages.
type StatsSummary struct {
	AvgKcal     float64  `json:"avgKcal"`
	AvgProtein  float64  `json:"avgProtein"`
	MinWeight   *float64 `json:"minWeight"`
	MaxWeight   *float64 `json:"maxWeight"`
	WeightDelta *float64 `json:"weightDelta"`
	DaysTracked int      `json:"daysTracked"`
}

// Stats is the full response for a date range, one slot per calendar day
// including gaps.
type Stats struct {
	Dates   []string     `json:"dates"`
	Kcal    MacroSeries  `json:"kcal"`
	Protein MacroSeries  `json:"protein"`
	Weight  WeightSeries `json:"weight"`
	Summary StatsSummary `json:"summary"`
}

// StatsService computes aggregate statistics over stored days.
type StatsService struct {
	days   ports.LedgerStore
	logger *zap.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(days ports.LedgerStore, logger *zap.Logger) *StatsService {
	return &StatsService{days: days, logger: logger}
}

// Compute builds the stats for the inclusive [from, to] date range. Every
// calendar day in the range gets a slot: untracked days contribute 0 kcal
// and protein and a null weight.
func (s *StatsService) Compute(ctx context.Context, userID, from, to string) (Stats, error) {
	if !ledger.ValidDate(from) || !ledger.ValidDate(to) {
		return Stats{}, errors.NewValidationError("from and to must be YYYY-MM-DD dates")
	}

	stored, err := s.days.ListDayDates(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	storedSet := make(map[string]struct{}, len(stored))
	for _, d := range stored {
		storedSet[d] = struct{}{}
	}

	dates := utils.DateRange(from, to)
	kcalValues := make([]float64, 0, len(dates))
	proteinValues := make([]float64, 0, len(dates))
	weightValues := make([]*float64, 0, len(dates))

	for _, date := range dates {
		if _, ok := storedSet[date]; !ok {
			kcalValues = append(kcalValues, 0)
			proteinValues = append(proteinValues, 0)
			weightValues = append(weightValues, nil)
			continue
		}
		day, err := s.days.ReadDay(ctx, userID, date)
		if err != nil {
			s.logger.Warn("stats skipped a day",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.Error(err),
			)
			kcalValues = append(kcalValues, 0)
			proteinValues = append(proteinValues, 0)
			weightValues = append(weightValues, nil)
			continue
		}
		kcalValues = append(kcalValues, day.Totals.Kcal)
		proteinValues = append(proteinValues, day.Totals.Protein)
		weightValues = append(weightValues, day.Weight)
	}

	return Stats{
		Dates: dates,
		Kcal: MacroSeries{
			Values:    kcalValues,
			MovingAvg: movingAverage(asNullable(kcalValues), movingAvgWindow),
		},
		Protein: MacroSeries{
			Values:    proteinValues,
			MovingAvg: movingAverage(asNullable(proteinValues), movingAvgWindow),
		},
		Weight: WeightSeries{
			Values:    weightValues,
			MovingAvg: movingAverage(weightValues, movingAvgWindow),
			Trend:     linearTrend(weightValues),
		},
		Summary: buildSummary(kcalValues, proteinValues, weightValues),
	}, nil
}

// movingAverage computes a trailing window average per slot, skipping
// unknown values. A slot whose window holds no known value stays unknown.
func movingAverage(values []*float64, windowSize int) []*float64 {
	result := make([]*float64, len(values))
	for i := range values {
		start := i - windowSize + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		count := 0
		for _, v := range values[start : i+1] {
			if v != nil {
				sum += *v
				count++
			}
		}
		if count > 0 {
			result[i] = catalog.Float64(catalog.Round2(sum / float64(count)))
		}
	}
	return result
}

// linearTrend fits a least-squares line through the known points and
// evaluates it at every slot. Fewer than two known points yields all-null.
func linearTrend(values []*float64) []*float64 {
	var xs, ys []float64
	for i, v := range values {
		if v != nil {
			xs = append(xs, float64(i))
			ys = append(ys, *v)
		}
	}
	result := make([]*float64, len(values))
	if len(xs) < 2 {
		return result
	}

	n := float64(len(xs))
	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	for i := range values {
		result[i] = catalog.Float64(catalog.Round2(slope*float64(i) + intercept))
	}
	return result
}

func buildSummary(kcal, protein []float64, weight []*float64) StatsSummary {
	var summary StatsSummary

	var kcalSum float64
	tracked := 0
	for _, v := range kcal {
		if v > 0 {
			kcalSum += v
			tracked++
		}
	}
	summary.DaysTracked = tracked
	if tracked > 0 {
		summary.AvgKcal = math.Round(kcalSum / float64(tracked))
	}

	var proteinSum float64
	proteinDays := 0
	for _, v := range protein {
		if v > 0 {
			proteinSum += v
			proteinDays++
		}
	}
	if proteinDays > 0 {
		summary.AvgProtein = math.Round(proteinSum/float64(proteinDays)*10) / 10
	}

	var known []float64
	for _, v := range weight {
		if v != nil {
			known = append(known, *v)
		}
	}
	if len(known) > 0 {
		minW, maxW := known[0], known[0]
		for _, v := range known[1:] {
			if v < minW {
				minW = v
			}
			if v > maxW {
				maxW = v
			}
		}
		summary.MinWeight = catalog.Float64(minW)
		summary.MaxWeight = catalog.Float64(maxW)
	}
	if len(known) >= 2 {
		delta := math.Round((known[len(known)-1]-known[0])*10) / 10
		summary.WeightDelta = catalog.Float64(delta)
	}

	return summary
}

func asNullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}
