// Package projection blends trailing trend features with forward game
// context into a single expected fantasy line. Every constant in the blend is
// a fixed design parameter, deliberately not configurable at runtime.
package projection

import (
	"errors"
	"math"
	"strings"

	"github.com/10EMMMM/nbaanalysts/internal/features"
	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

// ErrNoFeatures is returned when a projection is requested over an empty
// feature series.
var ErrNoFeatures = errors.New("projection: empty feature series")

// Context carries the forward-looking inputs a caller knows about the next
// game. Numeric fields are optional; absent values fall back to the latest
// trailing averages.
type Context struct {
	PlayerID         string
	ProjectedMinutes *float64
	InjuryStatus     string
	PaceContext      *float64
	VegasTotal       *float64
	OppDefRating     *float64
}

// Result is one projected game line. ExpectedUsage and ExpectedEfficiency
// stay nil when their basis is wholly undefined; everything else is always a
// finite number.
type Result struct {
	PlayerID           string
	ExpectedPoints     float64
	ExpectedScore      float64
	ExpectedMinutes    float64
	ExpectedUsage      *float64
	ExpectedEfficiency *float64
	LowerCI            float64
	UpperCI            float64
	Notes              string
}

const (
	projectedMinutesWeight = 0.55
	baselineMinutesWeight  = 0.45

	scorePriorWeight   = 0.35
	minutesUsageWeight = 0.40
	efficiencyWeight   = 0.15
	pointsWeight       = 0.10

	minutesScoreFactor = 1.15
	efficiencyScale    = 60.0
	paceBonusRate      = 0.25
	usageAdjustRate    = 100.0
	effAdjustRate      = 250.0
	pacePointsRate     = 110.0

	usageFallback      = 20.0
	efficiencyFallback = 0.56
	neutralOppRating   = 110.0

	vegasBaseline = 220.0
	vegasRate     = 0.1

	ciFloor     = 4.0
	ciStdFactor = 1.15
	fallbackStd = 6.0
)

// Blend projects the next game from the last record of feats and the supplied
// context. It fails only on an empty feature series; missing numbers inside
// the series or the context degrade through fallback chains instead of
// erroring.
func Blend(feats []features.Record, ctx Context) (Result, error) {
	if len(feats) == 0 {
		return Result{}, ErrNoFeatures
	}
	latest := feats[len(feats)-1]

	// Minutes: blend the externally projected workload with the trailing
	// baseline, add the short-term trend, then apply the injury haircut.
	base := value(stats.Coalesce(latest.MinutesAvg5, latest.Minutes), 0)
	projected := value(ctx.ProjectedMinutes, base)
	trend := value(latest.MinutesTrend5, 0)
	minutes := projectedMinutesWeight*projected + baselineMinutesWeight*base + trend
	minutes *= injuryModifier(ctx.InjuryStatus)
	if minutes < 0 {
		minutes = 0
	}

	// Pace shift drives usage, points, and the composite bonus. Unknown pace
	// on both sides leaves every pace adjustment neutral.
	paceContext := stats.Coalesce(ctx.PaceContext, latest.PaceAvg5, latest.Pace)
	paceAnchor := stats.Coalesce(latest.PaceAvg5, paceContext)
	var paceShift float64
	if paceContext != nil && paceAnchor != nil {
		paceShift = *paceContext - *paceAnchor
	}

	baseUsage := stats.Coalesce(latest.UsageAvg5, latest.UsageRate)
	var expectedUsage *float64
	if baseUsage != nil {
		expectedUsage = stats.Ptr(*baseUsage * (1 + paceShift/usageAdjustRate))
	}

	baseEff := stats.Coalesce(latest.TSAvg5, latest.TrueShooting)
	oppAnchor := value(stats.Coalesce(latest.OppDefAvg5, latest.OppDefRating), neutralOppRating)
	oppScheme := value(ctx.OppDefRating, oppAnchor)
	var expectedEff *float64
	if baseEff != nil {
		expectedEff = stats.Ptr(*baseEff * (1 - (oppScheme-oppAnchor)/effAdjustRate))
	}

	pointsPrior := value(stats.Coalesce(latest.PointsAvg5, latest.Points), 0)
	minutesFactor := 1.0
	if base > 0 {
		minutesFactor = minutes / base
	}
	expectedPoints := pointsPrior * minutesFactor *
		ratio(expectedUsage, baseUsage) *
		ratio(expectedEff, baseEff) *
		(1 + paceShift/pacePointsRate)

	scorePrior := value(stats.Coalesce(latest.ScoreMean10, latest.SorareScore), expectedPoints)
	usageTerm := value(expectedUsage, usageFallback)
	effTerm := value(expectedEff, efficiencyFallback)
	paceBonus := paceShift * paceBonusRate
	vegasAdj := (value(ctx.VegasTotal, vegasBaseline) - vegasBaseline) * vegasRate
	score := scorePriorWeight*scorePrior +
		minutesUsageWeight*(minutes*minutesScoreFactor+usageTerm) +
		efficiencyWeight*(effTerm*efficiencyScale+paceBonus) +
		pointsWeight*expectedPoints +
		vegasAdj
	if score < 0 {
		score = 0
	}

	std := value(stats.Coalesce(latest.PointsStd10, latest.ScoreStd10), fallbackStd)
	width := math.Max(ciFloor, std*ciStdFactor)

	return Result{
		PlayerID:           ctx.PlayerID,
		ExpectedPoints:     expectedPoints,
		ExpectedScore:      score,
		ExpectedMinutes:    minutes,
		ExpectedUsage:      expectedUsage,
		ExpectedEfficiency: expectedEff,
		LowerCI:            math.Max(0, score-width),
		UpperCI:            score + width,
		Notes:              buildNotes(latest, ctx),
	}, nil
}

// injuryModifier scales projected minutes by status keyword. Categories are
// checked in a fixed order so a status like "questionable (out Tuesday)"
// takes the questionable haircut.
func injuryModifier(status string) float64 {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "questionable"):
		return 0.92
	case strings.Contains(s, "probable"):
		return 0.97
	case strings.Contains(s, "out"):
		return 0.0
	default:
		return 1.0
	}
}

func buildNotes(latest features.Record, ctx Context) string {
	var notes []string
	if latest.HighPace {
		notes = append(notes, "Recent games at above-average pace")
	}
	if latest.LowMinutes {
		notes = append(notes, "Recent minutes dip to monitor")
	}
	if ctx.InjuryStatus != "" {
		notes = append(notes, "Injury status: "+ctx.InjuryStatus)
	}
	if latest.ScoringRun {
		notes = append(notes, "Recent scoring surge")
	}
	return strings.Join(notes, "; ")
}

func value(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// ratio compares an adjusted value to its base and stays neutral when either
// side is undefined or the base is zero.
func ratio(adjusted, base *float64) float64 {
	if adjusted == nil || base == nil || *base == 0 {
		return 1
	}
	return *adjusted / *base
}
