package cache

// GraphKeyOpts identifies a generated dataset.
type GraphKeyOpts struct {
	Seed           uint64 `json:"seed"`
	Sizes          []int  `json:"sizes"`
	ClassTopics    [2]int `json:"class_topics"`
	ObjectiveLinks [2]int `json:"objective_links"`
}

// ArtifactKeyOpts identifies one rendering of a dataset.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Style       string  `json:"style,omitempty"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Selected    string  `json:"selected,omitempty"`
	Trace       string  `json:"trace,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Title       string  `json:"title,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	GraphKey(opts GraphKeyOpts) string
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<sha256>".
func (DefaultKeyer) GraphKey(opts GraphKeyOpts) string {
	return hashKey("graph", opts)
}

// ArtifactKey returns "artifact:<sha256>" over the dataset hash and options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep several deployments apart in one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// GraphKey generates a prefixed dataset key.
func (k *ScopedKeyer) GraphKey(opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
