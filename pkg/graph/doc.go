// Package graph provides the wire format for curriculum graphs and
// resolved connection lists.
//
// This package defines the canonical serialization used for JSON and YAML
// files, API responses and cached artifacts. It sits at the boundary between
// [curriculum.Graph] and external formats: node identifiers appear as
// "tier-ordinal" strings here and nowhere else.
//
// # Document Format
//
// A [Document] lists each tier as its own array, mirroring how curriculum
// data is usually authored by hand:
//
//	{
//	  "id": "9b2f3c1e-...",
//	  "seed": 42,
//	  "viewport": {"width": 1200, "height": 900},
//	  "topics": [{"id": "topic-1", "name": "Topic 1", "x": 600, "y": 50}],
//	  "classes": [{"id": "class-1", "name": "Class 1", "connectedTopics": [1]}],
//	  "courseObjectives": [{"id": "objective-1", "name": "CO 1", "connectedClasses": [1], "connections": [2]}],
//	  "lectureObjectives": [{"id": "lecture-1", "name": "LO 1", "connectedObjectives": [1]}],
//	  "assessments": [{"id": "assessment-1", "name": "A 1", "connectedLectures": [1]}]
//	}
//
// Coordinates are written when the graph is positioned. On read they are
// recomputed from the stored viewport with default layout options, so a
// document always decodes into a consistent snapshot.
//
// Common operations:
//
//	g, _ := graph.ReadFile("curriculum.yaml")   // File → Graph (format by extension)
//	graph.WriteFile(g, "curriculum.json")       // Graph → File
//	data, _ := graph.Marshal(g)                 // Graph → JSON bytes
//	edges, _ := graph.MarshalEdges(resolved)    // []curriculum.Edge → JSON bytes
//
// # Validation
//
// Decoding runs every reference through [curriculum.New]. Malformed input
// fails with INVALID_FORMAT, bad identifiers with INVALID_NODE_ID and
// dangling or duplicate references with INVALID_REFERENCE.
package graph
