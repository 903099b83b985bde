package forecast

import (
	"math"
	"strings"

	"kvadrat/server/internal/models"
)

// Forecast horizons in months, served in this order for every class.
var Horizons = []int{6, 12, 18, 24}

const (
	// firingThreshold filters numerically negligible rule activations.
	firingThreshold = 0.01

	// fallbackChange is the base change used when no rule fires, which
	// cannot happen for finite inputs with the current rule base but
	// keeps the model robust against rule edits.
	fallbackChange = 0.05

	// trendWeight is the pass-through of observed momentum into the
	// forecast.
	trendWeight = 0.3
)

// fuzzySet is a Gaussian membership function over a numeric domain.
type fuzzySet struct {
	center float64
	sigma  float64
}

func (s fuzzySet) membership(x float64) float64 {
	return math.Exp(-math.Pow((x-s.center)/s.sigma, 2))
}

// Linguistic terms for the time horizon (months) and market activity
// (0-1 scale) variables.
var (
	timeShort  = fuzzySet{center: 6, sigma: 3}
	timeMedium = fuzzySet{center: 12, sigma: 4}
	timeLong   = fuzzySet{center: 24, sigma: 6}

	activityHigh   = fuzzySet{center: 0.7, sigma: 0.2}
	activityMedium = fuzzySet{center: 0.5, sigma: 0.2}
	activityLow    = fuzzySet{center: 0.3, sigma: 0.2}
)

// rule is one TSK rule: fuzzy antecedents over time and activity with
// a crisp consequent, the predicted fractional price change.
type rule struct {
	time     fuzzySet
	activity fuzzySet
	change   float64
}

var ruleBase = []rule{
	{timeShort, activityHigh, 0.06},
	{timeShort, activityMedium, 0.03},
	{timeShort, activityLow, 0.01},
	{timeMedium, activityHigh, 0.12},
	{timeMedium, activityMedium, 0.07},
	{timeMedium, activityLow, 0.03},
	{timeLong, activityHigh, 0.20},
	{timeLong, activityMedium, 0.12},
	{timeLong, activityLow, 0.06},
}

// Model is a Takagi-Sugeno-Kang fuzzy inference model with a fixed
// rule base. It is pure and stateless: identical inputs always give
// identical outputs.
type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// Predict returns the forecast fractional price change for the given
// horizon, market activity, observed trend and housing class. Rule
// firing strength is the minimum of the two antecedent memberships;
// the weighted average of the active consequents is adjusted by the
// trend momentum term and the class coefficient.
func (m *Model) Predict(months, activity, trend float64, class string) float64 {
	var weightedSum, totalWeight float64
	for _, r := range ruleBase {
		firing := math.Min(r.time.membership(months), r.activity.membership(activity))
		if firing <= firingThreshold {
			continue
		}
		weightedSum += firing * r.change
		totalWeight += firing
	}

	change := fallbackChange
	if totalWeight > 0 {
		change = weightedSum / totalWeight
	}

	change += trend * trendWeight
	return change * classCoefficient(class)
}

// Forecast projects the base price over the fixed horizons. Price is
// the rounded projected value; Change is the predicted change as a
// percentage with one decimal place.
func (m *Model) Forecast(basePrice float64, class string, trend, activity float64) []models.ForecastPoint {
	points := make([]models.ForecastPoint, 0, len(Horizons))
	for _, months := range Horizons {
		change := m.Predict(float64(months), activity, trend, class)
		points = append(points, models.ForecastPoint{
			Months: months,
			Price:  int(math.Round(basePrice * (1 + change))),
			Change: math.Round(change*1000) / 10,
		})
	}
	return points
}

// classCoefficient scales the forecast per housing class. Matching is
// case-insensitive substring containment, deliberately looser than the
// ingestion classifier so ad-hoc labels still pick up a coefficient.
func classCoefficient(class string) float64 {
	label := strings.ToLower(class)
	switch {
	case strings.Contains(label, "премиум"):
		return 1.25
	case strings.Contains(label, "бизнес"):
		return 1.15
	default:
		return 1.0
	}
}
