package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecopulse/domain"
)

func TestNewReport_ClampsAndColors(t *testing.T) {
	r := newReport(domain.AnalysisResult{
		EcoScore: domain.EcoScore{Carbon: 120, Recyclability: 50, Sourcing: -5},
	})

	assert.Equal(t, 100, r.Bars[0].Value)
	assert.Equal(t, "good", r.Bars[0].Color)
	assert.Equal(t, "fair", r.Bars[1].Color)
	assert.Equal(t, 0, r.Bars[2].Value)
	assert.Equal(t, "poor", r.Bars[2].Color)
	assert.Equal(t, 50, r.Overall)
}

func TestNewReport_Overall(t *testing.T) {
	r := newReport(domain.AnalysisResult{
		EcoScore: domain.EcoScore{Carbon: 80, Recyclability: 90, Sourcing: 85},
	})
	assert.Equal(t, 85, r.Overall)
	assert.Equal(t, "good", r.OverallColor)
}

func TestTipAt_Rotates(t *testing.T) {
	assert.Equal(t, ecoTips[0], tipAt(0))
	assert.Equal(t, ecoTips[0], tipAt(5))
	assert.Equal(t, ecoTips[1], tipAt(6))
	assert.Equal(t, ecoTips[0], tipAt(int64(6*len(ecoTips))))
}
