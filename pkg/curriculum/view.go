package curriculum

// Highlight is a resolved selection: the edges to draw emphasized and the set
// of nodes that stay fully visible.
type Highlight struct {
	Selected NodeID
	Edges    []Edge
	visible  map[NodeID]bool
}

// Highlight resolves sel once. An unknown sel yields a highlight in which no
// real node is visible, together with the NODE_NOT_FOUND error.
func (g *Graph) Highlight(sel NodeID, opts TraceOptions) (Highlight, error) {
	h := Highlight{Selected: sel}
	if sel.IsZero() {
		return h, nil
	}
	edges, err := g.ResolveConnections(sel, opts)
	h.Edges = edges
	h.visible = map[NodeID]bool{sel: true}
	for _, e := range edges {
		h.visible[e.From] = true
		h.visible[e.To] = true
	}
	return h, err
}

// Active reports whether a node is selected.
func (h Highlight) Active() bool { return !h.Selected.IsZero() }

// Visible reports whether id is drawn at full opacity: always without a
// selection, otherwise only for the selection and the endpoints of its edges.
func (h Highlight) Visible(id NodeID) bool {
	if !h.Active() {
		return true
	}
	return h.visible[id]
}

// IsVisible reports whether id stays visible while sel is selected. For
// many nodes, resolve once with [Graph.Highlight] instead.
func (g *Graph) IsVisible(id, sel NodeID, opts TraceOptions) bool {
	if sel.IsZero() || id == sel {
		return true
	}
	h, err := g.Highlight(sel, opts)
	if err != nil {
		return false
	}
	return h.Visible(id)
}

// ViewState is the interaction state of one viewer: selection, hovered edge
// and viewport. It is a value; every transition returns a new state.
type ViewState struct {
	Selected NodeID   `json:"selected"`
	Hovered  string   `json:"hovered,omitempty"`
	Viewport Viewport `json:"viewport"`
}

// NewViewState returns a state with nothing selected.
func NewViewState(vp Viewport) ViewState { return ViewState{Viewport: vp} }

// Toggle selects id, or clears the selection when id is already selected.
// Any hover is dropped because the highlighted edge set changes.
func (v ViewState) Toggle(id NodeID) ViewState {
	if id.IsZero() || v.Selected == id {
		return v.Clear()
	}
	v.Selected = id
	v.Hovered = ""
	return v
}

// Clear drops selection and hover.
func (v ViewState) Clear() ViewState {
	v.Selected = None
	v.Hovered = ""
	return v
}

// Hover marks the edge with the given [Edge.Key] as hovered; "" clears it.
func (v ViewState) Hover(key string) ViewState {
	v.Hovered = key
	return v
}

// Resize records a new viewport. Selection survives the resize.
func (v ViewState) Resize(vp Viewport) ViewState {
	v.Viewport = vp
	return v
}

// HasSelection reports whether a node is selected.
func (v ViewState) HasSelection() bool { return !v.Selected.IsZero() }
