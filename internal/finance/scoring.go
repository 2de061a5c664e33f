package finance

import (
	"fmt"
	"strings"

	"estatify/server/config"
	"estatify/server/internal/models"
)

// band awards points when a value passes its threshold. Bands are checked in
// order and the first match wins.
type band struct {
	threshold float64
	points    int
}

var (
	// Investment score, above thresholds
	investmentROIBands   = []band{{8, 35}, {5, 25}, {3, 15}}
	investmentYieldBands = []band{{5, 30}, {4, 20}, {3, 10}}

	// Investment score, below thresholds
	investmentPricePerSqmBands = []band{{3000, 20}, {4000, 15}, {5000, 10}}

	investmentConditionPoints = map[models.Condition]int{
		models.ConditionExcellent: 15,
		models.ConditionGood:      10,
		models.ConditionFair:      5,
	}

	conditionScores = map[models.Condition]int{
		models.ConditionExcellent: 95,
		models.ConditionGood:      80,
		models.ConditionFair:      60,
		models.ConditionPoor:      40,
	}

	locationScores = map[config.CityTier]int{
		config.TierMetro:     90,
		config.TierSecondary: 75,
		config.TierOther:     60,
	}

	roiTierBands = []band{{8, 95}, {6, 80}, {4, 65}, {2, 50}}
)

const (
	defaultConditionScore = 50
	roiTierFloor          = 30
)

func pointsAbove(bands []band, value float64) int {
	for _, b := range bands {
		if value > b.threshold {
			return b.points
		}
	}
	return 0
}

func pointsBelow(bands []band, value float64) int {
	for _, b := range bands {
		if value < b.threshold {
			return b.points
		}
	}
	return 0
}

// Scores holds the four independent 0-100 sub-scores of a listing
type Scores struct {
	Investment int `json:"investment"`
	Location   int `json:"location"`
	Condition  int `json:"condition"`
	ROI        int `json:"roi"`
}

// InvestmentScore adds up the ROI, rental yield, price per m² and condition
// bands. Unknown metrics count as zero.
func InvestmentScore(l *models.Listing) int {
	score := pointsAbove(investmentROIBands, l.ROIValue())
	score += pointsAbove(investmentYieldBands, l.RentalYieldValue())
	score += pointsBelow(investmentPricePerSqmBands, l.PricePerSqmValue())
	score += investmentConditionPoints[l.Condition]
	return score
}

func LocationScore(l *models.Listing) int {
	return locationScores[config.TierOf(l.City)]
}

func ConditionScore(l *models.Listing) int {
	if score, ok := conditionScores[l.Condition]; ok {
		return score
	}
	return defaultConditionScore
}

func ROITierScore(l *models.Listing) int {
	if score := pointsAbove(roiTierBands, l.ROIValue()); score > 0 {
		return score
	}
	return roiTierFloor
}

func ScoreListing(l *models.Listing) Scores {
	return Scores{
		Investment: InvestmentScore(l),
		Location:   LocationScore(l),
		Condition:  ConditionScore(l),
		ROI:        ROITierScore(l),
	}
}

// rule is a guarded message. Rule lists are evaluated in order and every
// matching message is kept, so the order of a list is its priority.
type rule struct {
	applies func(l *models.Listing) bool
	message string
}

var recommendationRules = []rule{
	{
		applies: func(l *models.Listing) bool { return l.ROIValue() > 6 },
		message: "Excellent investment opportunity with high ROI",
	},
	{
		applies: func(l *models.Listing) bool { return l.RentalYieldValue() > 4.5 },
		message: "Attractive rental yield for long-term cash flow generation",
	},
	{
		applies: func(l *models.Listing) bool { return l.PricePerSqmValue() < 3500 },
		message: "Favorable price per square meter with appreciation potential",
	},
	{
		applies: func(l *models.Listing) bool {
			return l.Condition == models.ConditionExcellent || l.Condition == models.ConditionGood
		},
		message: "Good condition reduces renovation costs",
	},
}

var riskRules = []rule{
	{
		applies: func(l *models.Listing) bool { return l.ROIValue() < 3 },
		message: "Low ROI could indicate overpriced property",
	},
	{
		applies: func(l *models.Listing) bool { return l.RentalYieldValue() < 3 },
		message: "Low rental yield - long-term cash flow at risk",
	},
	{
		applies: func(l *models.Listing) bool { return l.PricePerSqmValue() > 6000 },
		message: "High price per sqm limits appreciation potential",
	},
	{
		applies: func(l *models.Listing) bool { return l.YearBuilt != nil && *l.YearBuilt < 1970 },
		message: "Older building - potential renovation and energy costs",
	},
}

var opportunityRules = []rule{
	{
		applies: func(l *models.Listing) bool {
			return l.Condition == models.ConditionFair || l.Condition == models.ConditionPoor
		},
		message: "Renovation potential for value appreciation",
	},
	{
		applies: func(l *models.Listing) bool { return l.PricePerSqmValue() < 3000 },
		message: "Undervalued property with upward potential",
	},
	{
		applies: func(l *models.Listing) bool { return l.Size > 100 },
		message: "Large living space enables flexible usage concepts",
	},
}

func evaluate(rules []rule, l *models.Listing) []string {
	messages := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.applies(l) {
			messages = append(messages, r.message)
		}
	}
	return messages
}

func Recommendations(l *models.Listing) []string {
	return evaluate(recommendationRules, l)
}

func Risks(l *models.Listing) []string {
	return evaluate(riskRules, l)
}

func Opportunities(l *models.Listing) []string {
	return evaluate(opportunityRules, l)
}

// Analysis is the full scoring view of a single listing
type Analysis struct {
	PropertyID      int64    `json:"propertyId"`
	Scores          Scores   `json:"scores"`
	Recommendations []string `json:"recommendations"`
	Risks           []string `json:"risks"`
	Opportunities   []string `json:"opportunities"`
}

func AnalyzeListing(l *models.Listing) Analysis {
	return Analysis{
		PropertyID:      l.ID,
		Scores:          ScoreListing(l),
		Recommendations: Recommendations(l),
		Risks:           Risks(l),
		Opportunities:   Opportunities(l),
	}
}

const RiskToleranceLow = "low"

// RecommendationReasoning explains why a listing is recommended. The extra
// condition sentence is only added for low risk tolerance.
func RecommendationReasoning(l *models.Listing, riskTolerance string) string {
	reasons := []string{
		fmt.Sprintf("ROI of %s%% offers attractive returns", formatPercent(l.ROI)),
		fmt.Sprintf("Rental yield of %s%% generates stable cash flow", formatPercent(l.RentalYield)),
		fmt.Sprintf("Location in %s with good infrastructure", l.City),
	}

	if riskTolerance == RiskToleranceLow && l.Condition == models.ConditionExcellent {
		reasons = append(reasons, "Excellent condition minimizes investment risk")
	}

	return strings.Join(reasons, ". ")
}

func formatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
