package matcher

// RiskLevel is the coarse danger classification of an analyzed text.
type RiskLevel string

const (
	RiskGreen    RiskLevel = "green"
	RiskYellow   RiskLevel = "yellow"
	RiskBlinking RiskLevel = "blinking"
	RiskRed      RiskLevel = "red"
)

// Color returns the display color associated with a risk level.
func (r RiskLevel) Color() string {
	switch r {
	case RiskGreen:
		return "#00FF00"
	case RiskYellow:
		return "#FFFF00"
	case RiskBlinking:
		return "#FFA500"
	case RiskRed:
		return "#FF0000"
	default:
		return "#808080"
	}
}

// riskBand is a half-open [Lower,Upper) interval of adjusted scores.
type riskBand struct {
	Level RiskLevel
	Lower float64
	Upper float64
}

// riskBands partition the non-negative score axis with no gaps, so every
// adjusted score maps to exactly one level.
var riskBands = []riskBand{
	{RiskGreen, 0, 2},
	{RiskYellow, 2, 6},
	{RiskBlinking, 6, 11},
	{RiskRed, 11, -1},
}

// classifyRisk maps a weighted total score and match count to a risk level.
// The match count contributes half a point per match so many weak signals
// still escalate.
func classifyRisk(totalScore float64, matchCount int) (RiskLevel, float64) {
	adjusted := totalScore + float64(matchCount)*0.5
	for _, band := range riskBands {
		if band.Upper < 0 {
			if adjusted >= band.Lower {
				return band.Level, adjusted
			}
			continue
		}
		if adjusted >= band.Lower && adjusted < band.Upper {
			return band.Level, adjusted
		}
	}
	return RiskRed, adjusted
}
