// Package curriculum models a five-tier curriculum hierarchy and answers the
// two questions a diagram of it needs: where each node sits, and which
// connections light up when a node is selected.
//
// # Tiers
//
// Every node belongs to exactly one [Tier], ordered top to bottom:
//
//	Topic -> Class -> Course Objective -> Lecture Objective -> Assessment
//
// A node references upward by ordinal ([Node.Up]): a Class names one or two
// Topics, every lower tier names exactly one parent. Course Objectives also
// carry lateral references to one or two peers ([Node.Lateral]). Lateral links
// may form cycles; tracing never follows them more than one hop.
//
// # Building a Graph
//
// [Generate] produces a seeded synthetic dataset. [New] builds a graph from
// explicit tiers and validates every reference, so query code never has to
// cope with dangling ordinals:
//
//	g, err := curriculum.Generate(curriculum.DefaultGenerateOptions())
//	if err != nil {
//	    return err
//	}
//	g = g.AssignPositions(curriculum.Viewport{Width: 1200, Height: 900}, curriculum.DefaultLayoutOptions())
//
// Topology is immutable. [Graph.AssignPositions] returns a new snapshot with
// fresh coordinates and leaves the receiver untouched.
//
// # Tracing
//
// [Graph.ResolveConnections] returns the edges relevant to one selected node
// in a stable order: upward first, then downward, then lateral. Edges are not
// deduplicated; a node reachable along two paths appears twice. [TraceOptions]
// toggles the rules that go beyond a strictly downward trace.
//
// [Graph.Highlight] resolves once and answers visibility for every node,
// which is what renderers use. [ViewState] holds the selection, hovered edge
// and viewport as an immutable value.
package curriculum
