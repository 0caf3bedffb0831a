package curriculum

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/curriculummap/pkg/errors"
)

// Range is an inclusive count range.
type Range struct {
	Min int `json:"min" yaml:"min" toml:"min"`
	Max int `json:"max" yaml:"max" toml:"max"`
}

func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprint(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// DefaultSizes is the node count per tier of a generated dataset.
var DefaultSizes = [NumTiers]int{5, 5, 15, 30, 45}

// DefaultSeed is the seed used when none is configured.
const DefaultSeed uint64 = 42

// GenerateOptions configures [Generate].
type GenerateOptions struct {
	// Seed drives every random choice. The same seed and sizes always
	// produce the same topology.
	Seed uint64
	// Sizes is the node count per tier, top to bottom.
	Sizes [NumTiers]int
	// ClassTopics bounds how many Topics each Class references.
	ClassTopics Range
	// ObjectiveLinks bounds how many peers each Course Objective references.
	ObjectiveLinks Range
}

// DefaultGenerateOptions returns the standard dataset shape with [DefaultSeed].
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Seed:           DefaultSeed,
		Sizes:          DefaultSizes,
		ClassTopics:    Range{1, 2},
		ObjectiveLinks: Range{1, 2},
	}
}

// Validate checks that the options can produce a valid graph.
func (o GenerateOptions) Validate() error {
	for t, n := range o.Sizes {
		if n < 1 {
			return errors.New(errors.ErrCodeInvalidInput, "%s count must be at least 1, got %d", Tier(t).Title(), n)
		}
		if n > 10_000 {
			return errors.New(errors.ErrCodeInvalidInput, "%s count too large (max 10000), got %d", Tier(t).Title(), n)
		}
	}
	if err := checkRange("class topics", o.ClassTopics, upBounds[TierClass], o.Sizes[TierTopic]); err != nil {
		return err
	}
	return checkRange("objective links", o.ObjectiveLinks, lateralBounds[TierObjective], o.Sizes[TierObjective]-1)
}

func checkRange(name string, r, allowed Range, available int) error {
	if r.Min < allowed.Min || r.Max > allowed.Max || r.Min > r.Max {
		return errors.New(errors.ErrCodeInvalidInput, "%s range %s must lie within %s", name, r, allowed)
	}
	if r.Min > available {
		return errors.New(errors.ErrCodeInvalidInput, "%s range %s needs at least %d candidates, have %d", name, r, r.Min, available)
	}
	return nil
}

// Generate builds a synthetic curriculum.
//
// Classes pick random distinct Topics; Course Objective i (0-based) belongs
// to Class i*nClass/nObjective+1 and the same proportional rule maps Lecture
// Objectives onto Course Objectives and Assessments onto Lecture Objectives.
// Each Course Objective picks random distinct peers other than itself.
// The result passes [New] validation.
func Generate(opts GenerateOptions) (*Graph, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	seed := opts.Seed
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	var tiers [NumTiers][]Node
	for _, t := range Tiers() {
		tiers[t] = make([]Node, opts.Sizes[t])
		for i := range tiers[t] {
			tiers[t][i] = Node{ID: ID(t, i+1), Name: defaultName(t, i+1)}
		}
	}

	topics := ordinals(opts.Sizes[TierTopic])
	for i := range tiers[TierClass] {
		tiers[TierClass][i].Up = randomSubset(rng, topics, opts.ClassTopics)
	}
	for _, t := range []Tier{TierObjective, TierLecture, TierAssessment} {
		nParent := opts.Sizes[t-1]
		nChild := opts.Sizes[t]
		for i := range tiers[t] {
			tiers[t][i].Up = []int{ProportionalParent(i, nChild, nParent)}
		}
	}
	for i := range tiers[TierObjective] {
		peers := make([]int, 0, opts.Sizes[TierObjective]-1)
		for k := 1; k <= opts.Sizes[TierObjective]; k++ {
			if k != i+1 {
				peers = append(peers, k)
			}
		}
		tiers[TierObjective][i].Lateral = randomSubset(rng, peers, opts.ObjectiveLinks)
	}

	return New(tiers, Options{Seed: seed})
}

// ProportionalParent maps child index i (0-based) of nChild onto a 1-based
// parent ordinal among nParent, spreading children evenly in order.
func ProportionalParent(i, nChild, nParent int) int {
	p := i*nParent/nChild + 1
	return min(max(p, 1), nParent)
}

// randomSubset picks a random count in r and draws that many distinct
// candidates, keeping the draw order.
func randomSubset(rng *rand.Rand, candidates []int, r Range) []int {
	count := r.Min
	if r.Max > r.Min {
		count += rng.IntN(r.Max - r.Min + 1)
	}
	count = min(count, len(candidates))
	pool := append([]int(nil), candidates...)
	out := make([]int, 0, count)
	for k := range count {
		j := k + rng.IntN(len(pool)-k)
		pool[k], pool[j] = pool[j], pool[k]
		out = append(out, pool[k])
	}
	return out
}

func ordinals(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func defaultName(t Tier, ordinal int) string {
	return fmt.Sprintf("%s %d", t.ShortName(), ordinal)
}
