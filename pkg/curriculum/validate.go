package curriculum

import (
	"github.com/matzehuels/curriculummap/pkg/errors"
)

// upBounds lists how many upward references each tier must carry.
var upBounds = [NumTiers]Range{
	TierTopic:      {0, 0},
	TierClass:      {1, 2},
	TierObjective:  {1, 1},
	TierLecture:    {1, 1},
	TierAssessment: {1, 1},
}

// lateralBounds lists how many lateral references each tier must carry.
var lateralBounds = [NumTiers]Range{
	TierObjective: {1, 2},
}

// Validate checks tier contents against the hierarchy rules:
//
//   - node IDs match their tier and 1-based position
//   - Classes reference 1-2 Topics; every lower tier references exactly one parent
//   - Course Objectives reference 1-2 other Course Objectives laterally
//   - no other tier has lateral references
//   - every reference names an existing node and appears at most once per list
//
// [New] calls Validate; it is exported for decoders that want to report
// errors before building a graph.
func Validate(tiers [NumTiers][]Node) error {
	for t := range tiers {
		tier := Tier(t)
		for i, n := range tiers[t] {
			if n.ID != ID(tier, i+1) {
				return errors.New(errors.ErrCodeInvalidNodeID,
					"%s at position %d has id %q, want %q", tier.Title(), i+1, n.ID, ID(tier, i+1))
			}
			if err := checkRefs(n, "upward", n.Up, upBounds[t], parentLen(tiers, tier), false); err != nil {
				return err
			}
			if err := checkRefs(n, "lateral", n.Lateral, lateralBounds[t], len(tiers[t]), true); err != nil {
				return err
			}
		}
	}
	return nil
}

func parentLen(tiers [NumTiers][]Node, t Tier) int {
	p, ok := t.Parent()
	if !ok {
		return 0
	}
	return len(tiers[p])
}

func checkRefs(n Node, kind string, refs []int, bounds Range, limit int, lateral bool) error {
	if len(refs) < bounds.Min || len(refs) > bounds.Max {
		if bounds.Max == 0 {
			return errors.New(errors.ErrCodeInvalidReference,
				"%s must not have %s references", n.ID, kind)
		}
		return errors.New(errors.ErrCodeInvalidReference,
			"%s has %d %s references, want %s", n.ID, len(refs), kind, bounds)
	}
	seen := make(map[int]bool, len(refs))
	for _, r := range refs {
		switch {
		case r < 1 || r > limit:
			return errors.New(errors.ErrCodeInvalidReference,
				"%s %s reference %d out of range 1..%d", n.ID, kind, r, limit)
		case lateral && r == n.ID.Ordinal:
			return errors.New(errors.ErrCodeInvalidReference,
				"%s references itself", n.ID)
		case seen[r]:
			return errors.New(errors.ErrCodeInvalidReference,
				"%s lists %s reference %d twice", n.ID, kind, r)
		}
		seen[r] = true
	}
	return nil
}
