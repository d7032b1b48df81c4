package domain

// SLAPolicy parameters for evaluating a job's duration against its estimate.
// Injected from configuration.
type SLAPolicy struct {
	// ToleranceFraction allowed overrun of the estimate before a breach,
	// e.g. 0.1 allows 10% over the estimated duration.
	ToleranceFraction float64
	// PenaltyRate fraction of the net payout withheld per unit of relative
	// overrun beyond the tolerance.
	PenaltyRate float64
	// MaxPenaltyFraction upper bound of the penalty as a fraction of the
	// net payout.
	MaxPenaltyFraction float64
}

// IsBreached reports whether actualMinutes exceeds the estimate beyond the
// configured tolerance.
func (p SLAPolicy) IsBreached(estimatedMinutes, actualMinutes int) bool {
	if estimatedMinutes <= 0 {
		return false
	}
	allowed := float64(estimatedMinutes) * (1 + p.ToleranceFraction)
	return float64(actualMinutes) > allowed
}

// PenaltyFraction returns the fraction of the net payout to withhold for the
// given durations. Zero when the SLA was met.
func (p SLAPolicy) PenaltyFraction(estimatedMinutes, actualMinutes int) float64 {
	if !p.IsBreached(estimatedMinutes, actualMinutes) {
		return 0
	}
	allowed := float64(estimatedMinutes) * (1 + p.ToleranceFraction)
	overrun := (float64(actualMinutes) - allowed) / float64(estimatedMinutes)
	fraction := overrun * p.PenaltyRate
	if fraction > p.MaxPenaltyFraction {
		fraction = p.MaxPenaltyFraction
	}
	return fraction
}
