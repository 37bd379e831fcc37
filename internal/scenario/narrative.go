package scenario

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Narrative is the analyst-facing summary of a comparison run.
type Narrative struct {
	Title       string
	Overview    string
	KeyFindings KeyFindings
	Phases      []PhaseAnalysis
	KeyEvents   []string
	Conclusion  string
}

// KeyFindings groups the headline observations.
type KeyFindings struct {
	WealthImpact     string
	EqualityMeasures string
	CommunityHealth  string
}

// PhaseAnalysis characterizes one third of the simulated horizon.
type PhaseAnalysis struct {
	Period          string
	Type            string
	Characteristics string
	AvgWealth       string
	PovertyRate     string
	Gini            string
}

// buildNarrative summarizes a run's history into prose.
func buildNarrative(history []WeeklyMetrics, events []KeyEvent) Narrative {
	if len(history) == 0 {
		return Narrative{Title: "Error", Overview: "No simulation history data available."}
	}
	first := history[0]
	last := history[len(history)-1]

	wealthChange := 0.0
	if first.TotalWealthB != 0 {
		wealthChange = (last.TotalWealthB - first.TotalWealthB) / first.TotalWealthB
	}
	inequalityChange := last.GiniB - first.GiniB

	n := Narrative{
		Title: "Economic System Evolution Analysis",
		Overview: fmt.Sprintf(
			"Over %d weeks, the community's economic system under the cooperative scenario showed notable changes compared to the existing household scenario.",
			len(history)),
	}

	grew := "grew"
	if wealthChange < 0 {
		grew = "declined"
	}
	n.KeyFindings.WealthImpact = fmt.Sprintf(
		"Total cooperative wealth %s by %.1f%%, finishing at an average of $%s per member vs $%s under the existing system.",
		grew, math.Abs(wealthChange)*100,
		humanize.CommafWithDigits(last.AvgWealthB, 2),
		humanize.CommafWithDigits(last.AvgWealthA, 2))

	eqDirection := "increased"
	if inequalityChange < 0 {
		eqDirection = "decreased"
	}
	n.KeyFindings.EqualityMeasures = fmt.Sprintf(
		"Wealth inequality %s: the Gini coefficient moved from %.3f to %.3f (vs %.3f in the existing system), with the poorest 20%% holding %.1f%% of total wealth at the end.",
		eqDirection, first.GiniB, last.GiniB, last.GiniA, last.Bottom20Share*100)

	povertyTrend := "increased or stayed the same"
	if last.PovertyRateB < first.PovertyRateB {
		povertyTrend = "decreased"
	}
	n.KeyFindings.CommunityHealth = fmt.Sprintf(
		"The poverty rate %s, finishing at %.1f%% (vs %.1f%% in the existing system); the social safety net index closed at %.2f.",
		povertyTrend, last.PovertyRateB*100, last.PovertyRateA*100, last.SocialSafetyNet)

	n.Phases = analyzePhases(history)
	for _, e := range events {
		n.KeyEvents = append(n.KeyEvents, e.Description)
	}
	if len(n.KeyEvents) == 0 {
		n.KeyEvents = []string{"No significant key events detected."}
	}
	n.Conclusion = buildConclusion(history)
	return n
}

// analyzePhases splits the horizon into thirds and characterizes the
// wealth trajectory of each. Runs shorter than nine weeks have no
// meaningful phases.
func analyzePhases(history []WeeklyMetrics) []PhaseAnalysis {
	if len(history) < 9 {
		return nil
	}
	third := len(history) / 3
	segments := [][]WeeklyMetrics{
		history[:third],
		history[third : 2*third],
		history[2*third:],
	}
	periods := []string{
		fmt.Sprintf("Weeks 1-%d", third),
		fmt.Sprintf("Weeks %d-%d", third+1, 2*third),
		fmt.Sprintf("Weeks %d-%d", 2*third+1, len(history)),
	}
	names := []string{"Initial Phase", "Development Phase", "Maturity Phase"}

	phases := make([]PhaseAnalysis, 0, 3)
	growths := make([]float64, 0, 3)
	for i, segment := range segments {
		start, end := segment[0], segment[len(segment)-1]
		growth := 0.0
		if start.TotalWealthB > 1e-6 {
			growth = (end.TotalWealthB - start.TotalWealthB) / start.TotalWealthB
		}
		var character string
		switch i {
		case 0:
			switch {
			case math.Abs(growth) < 0.05:
				character = "Adaptation"
			case growth > 0.1:
				character = "Rapid Growth"
			default:
				character = "Steady Growth"
			}
		case 1:
			switch {
			case growth < growths[0]:
				character = "Consolidation"
			case growth > growths[0]:
				character = "Acceleration"
			default:
				character = "Stabilization"
			}
		default:
			switch {
			case math.Abs(growth) < 0.03:
				character = "Maturity"
			case growth > 0:
				character = "Continued Growth"
			default:
				character = "Contraction"
			}
		}
		growths = append(growths, growth)
		phases = append(phases, PhaseAnalysis{
			Period:          periods[i],
			Type:            names[i],
			Characteristics: fmt.Sprintf("%s (Wealth Change: %+.1f%%)", character, growth*100),
			AvgWealth:       fmt.Sprintf("$%s", humanize.CommafWithDigits(end.AvgWealthB, 2)),
			PovertyRate:     fmt.Sprintf("%.1f%%", end.PovertyRateB*100),
			Gini:            fmt.Sprintf("%.3f", end.GiniB),
		})
	}
	return phases
}

// buildConclusion scores the cooperative scenario against its own
// start and against the household scenario.
func buildConclusion(history []WeeklyMetrics) string {
	if len(history) == 0 {
		return "No simulation data to generate conclusion."
	}
	first := history[0]
	last := history[len(history)-1]

	wealthChange := 0.0
	if first.TotalWealthB > 1e-6 {
		wealthChange = (last.TotalWealthB - first.TotalWealthB) / first.TotalWealthB
	}
	inequalityChange := last.GiniB - first.GiniB
	povertyChange := last.PovertyRateB - first.PovertyRateB
	finalWealthDiff := last.TotalWealthB - last.TotalWealthA
	finalGiniDiff := last.GiniB - last.GiniA

	success := "challenging"
	switch {
	case wealthChange > 0.1 && povertyChange < 0:
		success = "successful"
	case wealthChange >= 0 && povertyChange <= 0:
		success = "moderately successful"
	}

	equity := "equity neutral"
	switch {
	case inequalityChange < -0.02:
		equity = "more equitable"
	case inequalityChange < 0:
		equity = "slightly more equitable"
	case inequalityChange > 0.02:
		equity = "less equitable"
	}

	conclusion := fmt.Sprintf(
		"The simulation suggests a %s outcome for the cooperative model over %d weeks. Compared to its starting point, the community became %s. ",
		success, len(history), equity)

	if finalWealthDiff > 0 {
		conclusion += fmt.Sprintf(
			"Crucially, the cooperative scenario ended with $%s more total wealth than the existing system. ",
			humanize.CommafWithDigits(finalWealthDiff, 2))
	} else {
		conclusion += fmt.Sprintf(
			"However, the cooperative scenario ended with $%s less total wealth than the existing system. ",
			humanize.CommafWithDigits(math.Abs(finalWealthDiff), 2))
	}

	switch {
	case finalGiniDiff < -0.01:
		conclusion += fmt.Sprintf("It also demonstrated lower final inequality (Gini diff: %.3f). ", finalGiniDiff)
	case finalGiniDiff > 0.01:
		conclusion += fmt.Sprintf("However, it showed higher final inequality (Gini diff: %.3f). ", finalGiniDiff)
	default:
		conclusion += "Final inequality levels were similar between scenarios. "
	}

	conclusion += "These results highlight the potential benefits (or drawbacks) of the cooperative model under the simulated parameters, particularly regarding wealth retention and distribution."
	return conclusion
}
