package metrics

import "github.com/san-kum/episim/internal/epi"

// ResolutionThreshold is the prevalence below which an outbreak counts
// as resolved when computing epidemic duration.
const ResolutionThreshold = 1e-3

// Summary holds the epidemiological statistics of a finished trajectory.
type Summary struct {
	PeakPrevalence float64
	PeakTime       float64
	AttackRate     float64
	Duration       float64
	Resolved       bool
}

// Extract computes summary statistics from a finished trajectory.
// The attack rate counts everyone ever infected: recovered at the final
// sample plus any residual infections if the outbreak has not resolved.
// Duration runs from the start until prevalence first falls below
// ResolutionThreshold after the peak; Resolved is false when that never
// happens within the horizon, in which case Duration spans the horizon.
func Extract(tr epi.Trajectory) Summary {
	var sum Summary
	if tr.Len() == 0 {
		return sum
	}

	peakIdx := 0
	for i, x := range tr.States {
		if x[epi.I] > sum.PeakPrevalence {
			sum.PeakPrevalence = x[epi.I]
			sum.PeakTime = tr.Times[i]
			peakIdx = i
		}
	}

	_, final := tr.Final()
	sum.AttackRate = final[epi.R] + final[epi.I]

	start := tr.Times[0]
	for i := peakIdx; i < tr.Len(); i++ {
		if tr.States[i][epi.I] < ResolutionThreshold {
			sum.Duration = tr.Times[i] - start
			sum.Resolved = true
			break
		}
	}
	if !sum.Resolved {
		sum.Duration = tr.Times[tr.Len()-1] - start
	}

	return sum
}
