// Package dag provides a row-indexed directed graph used to export curriculum
// hierarchies to layered renderers and to check reference subgraphs for cycles.
//
// # Overview
//
// Nodes are organized into horizontal rows (one row per curriculum tier).
// Hierarchy edges connect a row to the row directly below it; lateral edges
// connect two nodes of the same row. The curriculum model builds a DAG with
// [New], [DAG.AddNode] and [DAG.AddEdge] and hands it to the Graphviz
// exporter in pkg/render/nodelink.
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "topic-1", Row: 0})
//	g.AddNode(dag.Node{ID: "class-1", Row: 1})
//	g.AddEdge(dag.Edge{From: "topic-1", To: "class-1"})
//
// # Validation
//
// [DAG.Validate] checks edge endpoints and row consistency, which the
// curriculum model asserts on every export. [DAG.DetectCycles] runs the
// depth-first cycle check; on an export only lateral course-objective links
// can close a cycle.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Build one per export.
package dag
