package domain

import (
	"time"

	"github.com/m04kA/SMC-DispatchService/pkg/geo"
)

// ProximityPolicy parameters of the job-start gate. Injected from
// configuration so tests can run with their own thresholds.
type ProximityPolicy struct {
	ThresholdMeters float64
	MinDwell        time.Duration
}

// UpdateLiveLocation records a location ping from one party and advances the
// proximity gate.
//
// The gate requires the two parties to stay within ThresholdMeters of each
// other continuously for at least MinDwell before the job may start. Any
// observation outside the threshold resets the dwell timer: proximity must be
// continuous, not cumulative. Once CanStartJob has been granted it latches
// and a later separation does not revoke it.
//
// Pings may arrive out of order or be dropped; each update is evaluated
// against the latest known position of each party independently.
func (b *Booking) UpdateLiveLocation(role PartyRole, coords geo.Coordinates, policy ProximityPolicy, now time.Time) (bool, error) {
	if b.Status != StatusConfirmed && b.Status != StatusInProgress {
		return false, ErrLocationNotTrackable
	}

	switch role {
	case RoleCustomer:
		b.CustomerLocation = &coords
	case RoleProvider:
		b.ProviderLocation = &coords
	default:
		return false, ErrLocationNotTrackable
	}

	// While either position is unknown there is nothing to measure, and
	// continuity cannot be claimed across the gap: the dwell timer resets.
	if b.CustomerLocation == nil || b.ProviderLocation == nil {
		b.FirstProximityAt = nil
		return false, nil
	}

	distance := geo.DistanceMeters(*b.CustomerLocation, *b.ProviderLocation)

	if distance > policy.ThresholdMeters {
		// Dwell must be continuous; CanStartJob latches one-way.
		b.FirstProximityAt = nil
		return false, nil
	}

	if b.FirstProximityAt == nil {
		first := now
		b.FirstProximityAt = &first
	}
	if now.Sub(*b.FirstProximityAt) >= policy.MinDwell {
		b.CanStartJob = true
	}

	return true, nil
}
