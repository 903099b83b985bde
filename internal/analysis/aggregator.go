package analysis

import (
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"kvadrat/server/internal/ingest"
	"kvadrat/server/internal/models"
)

// Aggregator reduces grouped entities into summary statistics and the
// per-period mean-price history. Every call recomputes from scratch;
// nothing is carried over between refreshes.
type Aggregator struct {
	logger *logrus.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Aggregator{logger: logger}
}

// Aggregate builds the full analysis snapshot for one ingested dataset.
func (a *Aggregator) Aggregate(ds *ingest.Dataset) *models.Analysis {
	analysis := &models.Analysis{
		ClassStats:    make(map[string]models.ClassStats),
		DistrictStats: make(map[string]models.DistrictStats),
		AllEntities:   ds.Entities,
		PriceColumns:  ds.PriceColumns,
		UpdatedAt:     time.Now(),
	}

	for class, entities := range ds.ClassGroups {
		analysis.ClassStats[class] = classStats(entities)
	}
	for district, entities := range ds.DistrictGroups {
		analysis.DistrictStats[district] = districtStats(entities)
	}
	analysis.PriceHistory = priceHistory(ds)

	a.logger.WithFields(logrus.Fields{
		"classes":   len(analysis.ClassStats),
		"districts": len(analysis.DistrictStats),
		"periods":   len(analysis.PriceHistory),
	}).Info("Aggregated market analysis")

	return analysis
}

// classStats computes count, mean/min/max of last prices and the mean
// trend over one class group. The mean price is rounded for display,
// the trend is kept as an exact fraction.
func classStats(entities []*models.Entity) models.ClassStats {
	stats := models.ClassStats{Count: len(entities)}
	if len(entities) == 0 {
		return stats
	}

	stats.MinPrice = entities[0].LastPrice
	stats.MaxPrice = entities[0].LastPrice

	var priceSum, trendSum float64
	for _, e := range entities {
		priceSum += e.LastPrice
		trendSum += e.Trend
		if e.LastPrice < stats.MinPrice {
			stats.MinPrice = e.LastPrice
		}
		if e.LastPrice > stats.MaxPrice {
			stats.MaxPrice = e.LastPrice
		}
	}

	stats.AvgPrice = int(math.Round(priceSum / float64(len(entities))))
	stats.AvgTrend = trendSum / float64(len(entities))
	return stats
}

func districtStats(entities []*models.Entity) models.DistrictStats {
	stats := models.DistrictStats{Count: len(entities)}
	if len(entities) == 0 {
		return stats
	}

	var priceSum, trendSum float64
	for _, e := range entities {
		priceSum += e.LastPrice
		trendSum += e.Trend
	}

	stats.AvgPrice = int(math.Round(priceSum / float64(len(entities))))
	stats.AvgTrend = trendSum / float64(len(entities))
	return stats
}

// priceHistory builds one point per price column, in column order.
// A class appears in a point only when at least one of its entities
// has a valid price for that period; absent observations are omitted,
// never zero-filled or interpolated.
func priceHistory(ds *ingest.Dataset) []models.PriceHistoryPoint {
	history := make([]models.PriceHistoryPoint, 0, len(ds.PriceColumns))

	for _, col := range ds.PriceColumns {
		point := models.PriceHistoryPoint{
			Period: col.Period,
			Values: make(map[string]float64),
		}

		for class, entities := range ds.ClassGroups {
			var sum float64
			count := 0
			for _, e := range entities {
				if value, ok := priceAt(e, col.Period); ok {
					sum += value
					count++
				}
			}
			if count > 0 {
				point.Values[class] = math.Round(sum / float64(count))
			}
		}

		history = append(history, point)
	}

	return history
}

// priceAt returns the entity's observed price for the given period.
func priceAt(e *models.Entity, period string) (float64, bool) {
	for _, p := range e.Prices {
		if p.Period == period {
			return p.Value, true
		}
	}
	return 0, false
}
