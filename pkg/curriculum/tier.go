package curriculum

import (
	"strconv"
	"strings"

	"github.com/matzehuels/curriculummap/pkg/errors"
)

// Tier identifies one horizontal layer of the hierarchy. Lower values sit
// higher in the diagram.
type Tier int

const (
	TierTopic Tier = iota
	TierClass
	TierObjective
	TierLecture
	TierAssessment
)

// NumTiers is the fixed depth of the hierarchy.
const NumTiers = 5

var (
	tierPrefixes = [NumTiers]string{"topic", "class", "objective", "lecture", "assessment"}
	tierTitles   = [NumTiers]string{"Topic", "Class", "Course Objective", "Lecture Objective", "Assessment"}
	tierShort    = [NumTiers]string{"Topic", "Class", "CO", "LO", "A"}
)

// Tiers returns all tiers from top to bottom.
func Tiers() []Tier {
	return []Tier{TierTopic, TierClass, TierObjective, TierLecture, TierAssessment}
}

// Valid reports whether t is one of the five defined tiers.
func (t Tier) Valid() bool { return t >= TierTopic && t <= TierAssessment }

// String returns the identifier prefix of the tier, e.g. "objective".
func (t Tier) String() string {
	if !t.Valid() {
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
	return tierPrefixes[t]
}

// Title returns the human-readable tier name.
func (t Tier) Title() string {
	if !t.Valid() {
		return t.String()
	}
	return tierTitles[t]
}

// ShortName is the prefix used in generated node names ("CO 3").
func (t Tier) ShortName() string {
	if !t.Valid() {
		return t.String()
	}
	return tierShort[t]
}

// Parent returns the tier directly above t. Topics have no parent.
func (t Tier) Parent() (Tier, bool) {
	if t <= TierTopic || !t.Valid() {
		return 0, false
	}
	return t - 1, true
}

// Child returns the tier directly below t. Assessments have no child.
func (t Tier) Child() (Tier, bool) {
	if t >= TierAssessment || !t.Valid() {
		return 0, false
	}
	return t + 1, true
}

// ParseTier resolves a tier prefix as produced by [Tier.String].
func ParseTier(s string) (Tier, error) {
	for i, p := range tierPrefixes {
		if s == p {
			return Tier(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidNodeID, "unknown tier %q", s)
}

// NodeID is the tagged identity of a node: its tier and its 1-based ordinal
// inside that tier. The zero value means "no node" and is used as the empty
// selection.
type NodeID struct {
	Tier    Tier
	Ordinal int
}

// None is the empty selection.
var None NodeID

// ID builds a NodeID.
func ID(t Tier, ordinal int) NodeID { return NodeID{Tier: t, Ordinal: ordinal} }

// IsZero reports whether id is the empty selection.
func (id NodeID) IsZero() bool { return id == None }

// String renders the identifier as "tier-ordinal", e.g. "class-3".
// The empty selection renders as "".
func (id NodeID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.Tier.String() + "-" + strconv.Itoa(id.Ordinal)
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields
// the empty selection.
func (id *NodeID) UnmarshalText(b []byte) error {
	parsed, err := ParseSelection(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseNodeID parses "tier-ordinal". It is meant for boundaries only: CLI
// arguments, HTTP parameters and decoded files.
func ParseNodeID(s string) (NodeID, error) {
	prefix, num, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return None, errors.New(errors.ErrCodeInvalidNodeID, "malformed node id %q (want tier-n)", s)
	}
	t, err := ParseTier(prefix)
	if err != nil {
		return None, err
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return None, errors.New(errors.ErrCodeInvalidNodeID, "malformed node id %q: ordinal must be a positive integer", s)
	}
	return ID(t, n), nil
}

// ParseSelection is ParseNodeID that maps blank input to [None].
func ParseSelection(s string) (NodeID, error) {
	if strings.TrimSpace(s) == "" {
		return None, nil
	}
	return ParseNodeID(s)
}
