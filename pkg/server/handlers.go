package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/curriculummap/pkg/buildinfo"
	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/errors"
	"github.com/matzehuels/curriculummap/pkg/graph"
	"github.com/matzehuels/curriculummap/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// viewport reads width and height from the query, falling back to the
// configured viewport.
func (s *Server) viewport(r *http.Request) (curriculum.Viewport, error) {
	vp := s.opts.Viewport
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"width", &vp.Width}, {"height", &vp.Height}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return vp, errors.New(errors.ErrCodeInvalidViewport, "%s must be a number, got %q", p.name, raw)
		}
		if err := errors.ValidateDimension(p.name, v); err != nil {
			return vp, err
		}
		*p.dst = v
	}
	return vp, nil
}

// positioned lays the dataset out for the request's viewport.
func (s *Server) positioned(r *http.Request) (*curriculum.Graph, error) {
	vp, err := s.viewport(r)
	if err != nil {
		return nil, err
	}
	return s.runner.Layout(r.Context(), s.graph, vp, s.opts.Layout), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"id":     s.graph.ID().String(),
		"nodes":  s.graph.Len(),
		"build":  buildinfo.Current(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.positioned(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graph.FromGraph(g))
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	id, err := curriculum.ParseNodeID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.positioned(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := g.Highlight(id, s.opts.Trace)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, graph.FromHighlight(g, h))
}

func (s *Server) renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	vp, err := s.viewport(r)
	if err != nil {
		return pipeline.Options{}, err
	}
	sel, err := curriculum.ParseSelection(q.Get("selected"))
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Viewport:    vp,
		Layout:      s.opts.Layout,
		Trace:       s.opts.Trace,
		Selected:    sel,
		Hovered:     q.Get("hovered"),
		Formats:     []string{format},
		Style:       q.Get("style"),
		Interactive: q.Get("interactive") == "true",
		Title:       s.opts.Title,
	}
	if raw := q.Get("scale"); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale must be a number, got %q", raw)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.renderOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.ExecuteGraph(r.Context(), s.graph, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(result.Artifacts[format])
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; background: #f8fafc; }
    header { padding: 12px 24px; color: #334155; }
    main { overflow: auto; }
  </style>
</head>
<body>
  <header>{{.Title}} &middot; {{.Nodes}} nodes &middot; click a node to trace its connections</header>
  <main>{{.SVG}}</main>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(r, pipeline.FormatSVG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Interactive = true
	result, err := s.runner.ExecuteGraph(r.Context(), s.graph, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	title := s.opts.Title
	if title == "" {
		title = "Curriculum map"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexTemplate.Execute(w, struct {
		Title string
		Nodes int
		SVG   template.HTML
	}{title, s.graph.Len(), template.HTML(result.Artifacts[pipeline.FormatSVG])})
	if err != nil {
		s.logger.Error("render index", "err", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
