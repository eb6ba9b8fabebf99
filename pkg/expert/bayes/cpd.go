package bayes

// Discrete states used across the network. Three-state variables share the
// 0..2 index space; binary recommendation leaves use 0=not_recommended,
// 1=recommended.
const (
	levelWeak   = 0
	levelMedium = 1
	levelStrong = 2

	styleOffensive = 0
	styleBalanced  = 1
	styleDefensive = 2

	goalsLow    = 0
	goalsMedium = 1
	goalsHigh   = 2

	outcomeHomeWin = 0
	outcomeDraw    = 1
	outcomeAwayWin = 2
)

// rootPrior is the prior over every three-state root node.
var rootPrior = [3]float64{0.3, 0.4, 0.3}

// Parameters of the procedural MatchOutcome table.
const (
	homeAdvantage      = 0.1
	strengthStep       = 0.2 // per-level contribution of the strength gap
	styleBonusAttack   = 0.15
	styleBonusDefend   = -0.1
	homeWinFloor       = 0.1
	homeWinCeil        = 0.8
	awayWinFloor       = 0.1
	awayWinCeil        = 0.6
	drawFloor          = 0.1
	baseHomeWinChance  = 0.4
	baseAwayWinChance  = 0.3
	awayStrengthWeight = 0.5
)

// buildMatchOutcomeCPD generates P(MatchOutcome | HomeStrength, AwayStrength,
// HomeStyle, AwayStyle) over all 81 parent combinations. Rows are ordered
// [home_win, draw, away_win] and always sum to 1.
func buildMatchOutcomeCPD() [][3]float64 {
	rows := make([][3]float64, 0, 81)
	for hs := 0; hs < 3; hs++ {
		for as := 0; as < 3; as++ {
			for hst := 0; hst < 3; hst++ {
				for ast := 0; ast < 3; ast++ {
					rows = append(rows, outcomeRow(hs, as, hst, ast))
				}
			}
		}
	}
	return rows
}

func outcomeRow(homeStrength, awayStrength, homeStyle, awayStyle int) [3]float64 {
	strengthDiff := float64(homeStrength-awayStrength) * strengthStep

	styleBonus := 0.0
	if homeStyle == styleOffensive && awayStyle == styleDefensive {
		styleBonus = styleBonusAttack
	} else if homeStyle == styleDefensive && awayStyle == styleOffensive {
		styleBonus = styleBonusDefend
	}

	pHome := clampRange(baseHomeWinChance+homeAdvantage+strengthDiff+styleBonus, homeWinFloor, homeWinCeil)
	pAway := clampRange(baseAwayWinChance-strengthDiff*awayStrengthWeight, awayWinFloor, awayWinCeil)
	pDraw := 1.0 - pHome - pAway

	if pDraw < drawFloor {
		pDraw = drawFloor
		total := pHome + pAway + pDraw
		pHome /= total
		pAway /= total
		pDraw /= total
	}

	return [3]float64{pHome, pDraw, pAway}
}

// buildTotalGoalsCPD generates P(TotalGoals | HomeGoalsTendency,
// AwayGoalsTendency) over the 9 parent combinations. Rows are ordered
// [low, medium, high] and normalized to sum to 1.
func buildTotalGoalsCPD() [][3]float64 {
	rows := make([][3]float64, 0, 9)
	for hg := 0; hg < 3; hg++ {
		for ag := 0; ag < 3; ag++ {
			goalFactor := float64(hg+ag) / 4.0

			pLow := maxf(0.1, 0.6-goalFactor)
			pHigh := maxf(0.1, 0.2+goalFactor*0.5)
			pMedium := 1.0 - pLow - pHigh

			total := pLow + pMedium + pHigh
			rows = append(rows, [3]float64{pLow / total, pMedium / total, pHigh / total})
		}
	}
	return rows
}

// Leaf CPDs: P(leaf | parent state). First row is not_recommended, second is
// recommended. Columns follow the parent's state order: [home_win, draw,
// away_win] for outcome-conditioned leaves, [low, medium, high] for the
// goals-conditioned ones. Hand-authored, not learned.
var (
	homeWinLeafCPD = [2][3]float64{
		{0.1, 0.8, 0.9},
		{0.9, 0.2, 0.1},
	}
	awayWinLeafCPD = [2][3]float64{
		{0.9, 0.8, 0.1},
		{0.1, 0.2, 0.9},
	}
	drawLeafCPD = [2][3]float64{
		{0.8, 0.2, 0.8},
		{0.2, 0.8, 0.2},
	}
	overLeafCPD = [2][3]float64{
		{0.8, 0.5, 0.2},
		{0.2, 0.5, 0.8},
	}
	underLeafCPD = [2][3]float64{
		{0.2, 0.5, 0.8},
		{0.8, 0.5, 0.2},
	}
)

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
