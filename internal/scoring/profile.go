package scoring

import (
	"time"

	"github.com/10EMMMM/nbaanalysts/internal/stats"
)

// Composite weights: long-run baseline, recent form, and recent form scaled
// by opponent quality.
const (
	baselineWeight = 0.4
	recentWeight   = 0.4
	opponentWeight = 0.2
)

// ProjectedLine is the per-stat forecast: equal parts long-run and last-10
// averages.
type ProjectedLine struct {
	Points     float64
	Rebounds   float64
	Assists    float64
	Steals     float64
	Blocks     float64
	Turnovers  float64
	ThreesMade float64
}

// Profile is the long-run read on a player. Trailing trend fields are nil
// when the log is shorter than their window; the split fields are nil when
// no game falls in the split.
type Profile struct {
	Player      string
	Games       int
	BaselineAAS float64
	Consistency float64

	L10 *float64
	L30 *float64
	L50 *float64

	HomeAAS       *float64
	AwayAAS       *float64
	BackToBackAAS *float64

	OpponentAdjustedL10 float64
	CompositeAAS        float64

	Projected ProjectedLine
}

// BuildProfile scores an ascending game log and aggregates it into a
// profile. winPct maps opponent team codes to season win percentage; missing
// opponents count as 0.500.
func BuildProfile(player string, games []BoxRecord, winPct map[string]float64) Profile {
	p := Profile{Player: player, Games: len(games)}
	if len(games) == 0 {
		return p
	}

	aas := make([]float64, len(games))
	for i, g := range games {
		aas[i] = AllAround(g)
	}
	p.BaselineAAS = stats.Mean(aas)
	p.Consistency = stats.SampleStd(aas)
	p.L10 = tailMean(aas, 10)
	p.L30 = tailMean(aas, 30)
	p.L50 = tailMean(aas, 50)

	var home, away, backToBack []float64
	for i, g := range games {
		switch {
		case g.Home():
			home = append(home, aas[i])
		case g.Away():
			away = append(away, aas[i])
		}
		if i > 0 && nextDay(games[i-1].Date, g.Date) {
			backToBack = append(backToBack, aas[i])
		}
	}
	p.HomeAAS = meanOrNil(home)
	p.AwayAAS = meanOrNil(away)
	p.BackToBackAAS = meanOrNil(backToBack)

	recent := LastN(games, 10)
	var adjusted float64
	for _, s := range recent {
		pct, ok := winPct[s.Opponent()]
		if !ok {
			pct = 0.5
		}
		adjusted += s.AAS * pct
	}
	if len(recent) > 0 {
		p.OpponentAdjustedL10 = adjusted / float64(len(recent))
	}

	shortTerm := p.BaselineAAS
	if p.L10 != nil {
		shortTerm = *p.L10
	}
	p.CompositeAAS = baselineWeight*p.BaselineAAS +
		recentWeight*shortTerm +
		opponentWeight*p.OpponentAdjustedL10

	p.Projected = ProjectedLine{
		Points:     project(games, func(b BoxRecord) float64 { return b.Points }),
		Rebounds:   project(games, func(b BoxRecord) float64 { return b.Rebounds }),
		Assists:    project(games, func(b BoxRecord) float64 { return b.Assists }),
		Steals:     project(games, func(b BoxRecord) float64 { return b.Steals }),
		Blocks:     project(games, func(b BoxRecord) float64 { return b.Blocks }),
		Turnovers:  project(games, func(b BoxRecord) float64 { return b.Turnovers }),
		ThreesMade: project(games, func(b BoxRecord) float64 { return b.ThreesMade }),
	}
	return p
}

func project(games []BoxRecord, pick func(BoxRecord) float64) float64 {
	all := make([]float64, len(games))
	for i, g := range games {
		all[i] = pick(g)
	}
	recent := all
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	return 0.5*stats.Mean(all) + 0.5*stats.Mean(recent)
}

func tailMean(values []float64, n int) *float64 {
	if len(values) < n {
		return nil
	}
	return stats.Ptr(stats.Mean(values[len(values)-n:]))
}

func meanOrNil(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	return stats.Ptr(stats.Mean(values))
}

func nextDay(prev, cur time.Time) bool {
	if prev.IsZero() || cur.IsZero() {
		return false
	}
	return prev.AddDate(0, 0, 1).Equal(cur)
}
