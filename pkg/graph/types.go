package graph

import (
	"github.com/google/uuid"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/errors"
)

// Document is the serialized form of a curriculum graph.
type Document struct {
	ID       string               `json:"id,omitempty" yaml:"id,omitempty"`
	Seed     uint64               `json:"seed,omitempty" yaml:"seed,omitempty"`
	Viewport *curriculum.Viewport      `json:"viewport,omitempty" yaml:"viewport,omitempty"`
	Layout   *curriculum.LayoutOptions `json:"layout,omitempty" yaml:"layout,omitempty"`

	Topics            []Topic            `json:"topics" yaml:"topics"`
	Classes           []Class            `json:"classes" yaml:"classes"`
	CourseObjectives  []CourseObjective  `json:"courseObjectives" yaml:"courseObjectives"`
	LectureObjectives []LectureObjective `json:"lectureObjectives" yaml:"lectureObjectives"`
	Assessments       []Assessment       `json:"assessments" yaml:"assessments"`
}

// Node holds the fields every tier shares.
type Node struct {
	ID   string  `json:"id" yaml:"id"`
	Name string  `json:"name,omitempty" yaml:"name,omitempty"`
	X    float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y    float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

// Topic is a top-tier node.
type Topic struct {
	Node `yaml:",inline"`
}

// Class references one or two Topics.
type Class struct {
	Node            `yaml:",inline"`
	ConnectedTopics []int `json:"connectedTopics" yaml:"connectedTopics"`
}

// CourseObjective references one Class and one or two peer objectives.
type CourseObjective struct {
	Node             `yaml:",inline"`
	ConnectedClasses []int `json:"connectedClasses" yaml:"connectedClasses"`
	Connections      []int `json:"connections" yaml:"connections"`
}

// LectureObjective references one CourseObjective.
type LectureObjective struct {
	Node                `yaml:",inline"`
	ConnectedObjectives []int `json:"connectedObjectives" yaml:"connectedObjectives"`
}

// Assessment references one LectureObjective.
type Assessment struct {
	Node              `yaml:",inline"`
	ConnectedLectures []int `json:"connectedLectures" yaml:"connectedLectures"`
}

// FromGraph converts a graph to its serialization format.
func FromGraph(g *curriculum.Graph) Document {
	doc := Document{ID: g.ID().String(), Seed: g.Seed()}
	if g.Positioned() {
		vp, lo := g.Viewport(), g.Layout()
		doc.Viewport = &vp
		doc.Layout = &lo
	}
	for _, n := range g.Tier(curriculum.TierTopic) {
		doc.Topics = append(doc.Topics, Topic{Node: nodeFrom(n)})
	}
	for _, n := range g.Tier(curriculum.TierClass) {
		doc.Classes = append(doc.Classes, Class{Node: nodeFrom(n), ConnectedTopics: n.Up})
	}
	for _, n := range g.Tier(curriculum.TierObjective) {
		doc.CourseObjectives = append(doc.CourseObjectives, CourseObjective{
			Node:             nodeFrom(n),
			ConnectedClasses: n.Up,
			Connections:      n.Lateral,
		})
	}
	for _, n := range g.Tier(curriculum.TierLecture) {
		doc.LectureObjectives = append(doc.LectureObjectives, LectureObjective{Node: nodeFrom(n), ConnectedObjectives: n.Up})
	}
	for _, n := range g.Tier(curriculum.TierAssessment) {
		doc.Assessments = append(doc.Assessments, Assessment{Node: nodeFrom(n), ConnectedLectures: n.Up})
	}
	return doc
}

// ToGraph validates a document and builds the graph it describes. If the
// document records a viewport, the graph is positioned for it with the
// recorded layout options, which reproduces the stored x and y. Documents
// without layout options fall back to [curriculum.DefaultLayoutOptions].
func ToGraph(doc Document) (*curriculum.Graph, error) {
	var tiers [curriculum.NumTiers][]curriculum.Node
	add := func(t curriculum.Tier, n Node, up, lateral []int) error {
		node, err := nodeTo(t, n)
		if err != nil {
			return err
		}
		node.Up = up
		node.Lateral = lateral
		tiers[t] = append(tiers[t], node)
		return nil
	}
	for _, n := range doc.Topics {
		if err := add(curriculum.TierTopic, n.Node, nil, nil); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.Classes {
		if err := add(curriculum.TierClass, n.Node, n.ConnectedTopics, nil); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.CourseObjectives {
		if err := add(curriculum.TierObjective, n.Node, n.ConnectedClasses, n.Connections); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.LectureObjectives {
		if err := add(curriculum.TierLecture, n.Node, n.ConnectedObjectives, nil); err != nil {
			return nil, err
		}
	}
	for _, n := range doc.Assessments {
		if err := add(curriculum.TierAssessment, n.Node, n.ConnectedLectures, nil); err != nil {
			return nil, err
		}
	}

	opts := curriculum.Options{Seed: doc.Seed}
	if doc.ID != "" {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "dataset id %q", doc.ID)
		}
		opts.ID = id
	}
	g, err := curriculum.New(tiers, opts)
	if err != nil {
		return nil, err
	}
	if doc.Viewport != nil {
		for _, v := range []float64{doc.Viewport.Width, doc.Viewport.Height} {
			if err := errors.ValidateDimension("viewport", v); err != nil {
				return nil, err
			}
		}
		lo := curriculum.DefaultLayoutOptions()
		if doc.Layout != nil {
			lo = *doc.Layout
		}
		g = g.AssignPositions(*doc.Viewport, lo)
	}
	return g, nil
}

func nodeFrom(n curriculum.Node) Node {
	return Node{ID: n.ID.String(), Name: n.Name, X: n.Pos.X, Y: n.Pos.Y}
}

func nodeTo(t curriculum.Tier, n Node) (curriculum.Node, error) {
	out := curriculum.Node{Name: n.Name}
	if n.ID == "" {
		return out, nil
	}
	id, err := curriculum.ParseNodeID(n.ID)
	if err != nil {
		return out, err
	}
	if id.Tier != t {
		return out, errors.New(errors.ErrCodeInvalidNodeID, "%s listed among %s nodes", n.ID, t.Title())
	}
	out.ID = id
	return out, nil
}
