package ingest

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"kvadrat/server/internal/models"
)

// ErrNoPriceColumns means the header row contained no columns matching
// the price prefix, so the dataset is unusable.
var ErrNoPriceColumns = errors.New("no price columns discovered")

// Columns names the required source columns and the price prefix.
type Columns struct {
	Name        string
	Class       string
	District    string
	PricePrefix string
}

// Dataset is the result of one ingestion pass.
type Dataset struct {
	Entities       []*models.Entity
	ClassGroups    map[string][]*models.Entity
	DistrictGroups map[string][]*models.Entity
	PriceColumns   []models.PriceColumn
}

// Pipeline turns raw sheet rows into entities grouped by class and
// district. It only reads its input; every ingestion pass builds a
// fresh, independent Dataset.
type Pipeline struct {
	cols   Columns
	logger *logrus.Logger
}

// NewPipeline creates a pipeline for the given column layout.
func NewPipeline(cols Columns, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Pipeline{
		cols:   cols,
		logger: logger,
	}
}

// Ingest processes the header row and data rows into a Dataset.
// Output entity order equals input row order minus skipped rows.
func (p *Pipeline) Ingest(headers []string, rows []map[string]any) (*Dataset, error) {
	priceColumns := DiscoverPriceColumns(headers, p.cols.PricePrefix)
	if len(priceColumns) == 0 {
		return nil, ErrNoPriceColumns
	}

	ds := &Dataset{
		ClassGroups:    make(map[string][]*models.Entity),
		DistrictGroups: make(map[string][]*models.Entity),
		PriceColumns:   priceColumns,
	}

	dropped := 0
	for _, row := range rows {
		entity := p.buildEntity(row, priceColumns)
		if entity == nil {
			dropped++
			continue
		}

		ds.Entities = append(ds.Entities, entity)
		ds.ClassGroups[entity.Class] = append(ds.ClassGroups[entity.Class], entity)
		if entity.District != "" {
			ds.DistrictGroups[entity.District] = append(ds.DistrictGroups[entity.District], entity)
		}
	}

	p.logger.WithFields(logrus.Fields{
		"rows":          len(rows),
		"entities":      len(ds.Entities),
		"dropped":       dropped,
		"price_columns": len(priceColumns),
	}).Info("Ingested sheet rows")

	return ds, nil
}

// buildEntity converts one row into an entity, or nil when the row
// must be skipped (missing name, unrecognized class, no valid prices).
func (p *Pipeline) buildEntity(row map[string]any, priceColumns []models.PriceColumn) *models.Entity {
	name := strings.TrimSpace(cellString(row[p.cols.Name]))
	if name == "" {
		return nil
	}

	class, ok := NormalizeClass(cellString(row[p.cols.Class]))
	if !ok {
		p.logger.WithField("name", name).Debug("Dropping row with unrecognized class")
		return nil
	}

	district := NormalizeDistrict(cellString(row[p.cols.District]))

	var prices []models.PricePoint
	for _, col := range priceColumns {
		value, ok := ParsePrice(row[col.Header])
		if !ok || value <= 0 {
			continue
		}
		prices = append(prices, models.PricePoint{Period: col.Period, Value: value})
	}
	if len(prices) == 0 {
		p.logger.WithField("name", name).Debug("Dropping row without valid prices")
		return nil
	}

	first := prices[0].Value
	last := prices[len(prices)-1].Value
	trend := 0.0
	if len(prices) >= 2 {
		trend = (last - first) / first
	}

	return &models.Entity{
		Name:       name,
		Class:      class,
		District:   district,
		Prices:     prices,
		FirstPrice: first,
		LastPrice:  last,
		Trend:      trend,
	}
}

// cellString renders a raw cell value for the text columns.
func cellString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}
