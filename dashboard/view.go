package dashboard

import (
	"math"

	"ecopulse/domain"
)

var ecoTips = []string{
	"Use reusable bags for shopping to reduce plastic waste.",
	"Switch to LED light bulbs to save energy and lower your electricity bill.",
	"Opt for products with minimal or recycled packaging.",
	"Compost food scraps to reduce landfill methane emissions.",
}

const tipRotationSeconds = 6

type bar struct {
	Label string
	Value int
	Color string
}

type report struct {
	Overall      int
	OverallColor string
	Bars         []bar
	Alternatives []string
}

type page struct {
	URL    string
	Error  string
	Tip    string
	Report *report
}

func newReport(result domain.AnalysisResult) *report {
	score := result.EcoScore
	values := []int{clampScore(score.Carbon), clampScore(score.Recyclability), clampScore(score.Sourcing)}
	overall := int(math.Round(float64(values[0]+values[1]+values[2]) / 3))

	return &report{
		Overall:      overall,
		OverallColor: scoreColor(overall),
		Bars: []bar{
			{Label: "Carbon Footprint", Value: values[0], Color: scoreColor(values[0])},
			{Label: "Recyclability", Value: values[1], Color: scoreColor(values[1])},
			{Label: "Ethical Sourcing", Value: values[2], Color: scoreColor(values[2])},
		},
		Alternatives: result.Alternatives,
	}
}

func clampScore(v int) int {
	return max(0, min(100, v))
}

func scoreColor(v int) string {
	switch {
	case v > 70:
		return "good"
	case v > 40:
		return "fair"
	default:
		return "poor"
	}
}

func tipAt(unixSeconds int64) string {
	i := (unixSeconds / tipRotationSeconds) % int64(len(ecoTips))
	if i < 0 {
		i += int64(len(ecoTips))
	}
	return ecoTips[i]
}
