package agent

import "tradegate/models"

// Model scores one instrument from its trailing quote window. The
// score is signed: positive is long bias, negative is short bias, and
// its magnitude (clamped to 1) is the confidence.
type Model interface {
	Score(instrument string, history []models.Quote) float64
}

// MomentumModel is the paper-trading default: the net fractional move
// over the window, amplified by gain.
type MomentumModel struct {
	Gain float64
}

func (m MomentumModel) Score(instrument string, history []models.Quote) float64 {
	if len(history) < 2 {
		return 0
	}

	first := history[0].Last
	last := history[len(history)-1].Last
	if first <= 0 {
		return 0
	}

	gain := m.Gain
	if gain == 0 {
		gain = 50
	}

	score := (last - first) / first * gain
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	return score
}
