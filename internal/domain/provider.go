package domain

import "github.com/m04kA/SMC-DispatchService/pkg/geo"

// ProviderSnapshot is a derived, never persisted view of a provider used by
// the matcher: the provider's current record plus the busy flag computed from
// its active bookings.
type ProviderSnapshot struct {
	ID   int64
	Name string

	Online bool
	Busy   bool

	Skills []string

	IdentityVerified bool
	ProfileComplete  bool

	ServiceAreaCenter geo.Coordinates
	ServiceRadiusKm   float64

	Rating          float64
	ExperienceYears int
}

// FullyVerified returns true if both verification flags are set
func (p *ProviderSnapshot) FullyVerified() bool {
	return p.IdentityVerified && p.ProfileComplete
}

// HasAnySkill returns true if the provider possesses at least one of the
// requested skills
func (p *ProviderSnapshot) HasAnySkill(requested []string) bool {
	for _, want := range requested {
		for _, have := range p.Skills {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Score ranks a provider for a job at the given distance. Higher is better.
func (p *ProviderSnapshot) Score(distanceKm float64) float64 {
	proximityScore := 100 - 2*distanceKm
	if proximityScore < 0 {
		proximityScore = 0
	}
	experience := p.ExperienceYears
	if experience > 10 {
		experience = 10
	}
	return p.Rating*20 + proximityScore + float64(experience)*2
}
