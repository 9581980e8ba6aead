// Package pagebind renders JSON content into an HTML document through
// declarative binding attributes, toggles inline editing on the bound nodes,
// tracks edits against the pristine document, and reports a changelist. A
// Component is one independent instance: it owns the parsed document, the
// pristine and working snapshots, and the editing state. Multiple components
// on different documents never share state.
package pagebind

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"golang.org/x/net/html"

	"github.com/pagebind/pagebind/internal/content"
	"github.com/pagebind/pagebind/internal/diff"
	"github.com/pagebind/pagebind/internal/dom"
	"github.com/pagebind/pagebind/internal/edit"
	"github.com/pagebind/pagebind/internal/jsonpath"
	"github.com/pagebind/pagebind/internal/render"
	"github.com/pagebind/pagebind/internal/snapshot"
)

// ErrNotAnArray is returned by InsertArrayItem when the path does not
// resolve to an array.
var ErrNotAnArray = render.ErrNotAnArray

// ChangeKind classifies a change record.
type ChangeKind string

const (
	// ChangeValue is a scalar replacement at a path.
	ChangeValue ChangeKind = "value"
	// ChangeArray is a whole-array replacement.
	ChangeArray ChangeKind = "array"
)

// ChangeRecord is one detected difference between the pristine and working
// snapshots. OldValue is nil for paths absent from the pristine document.
type ChangeRecord struct {
	Path     string     `json:"path"`
	OldValue any        `json:"oldValue"`
	NewValue any        `json:"newValue"`
	Kind     ChangeKind `json:"kind"`
}

// Snapshot is a JSON value plus the identity of the content file it came
// from.
type Snapshot struct {
	SourceID string `json:"sourceId"`
	Data     any    `json:"data"`
}

// ChangeSet is the full edit report a host reads back: the changelist plus
// the complete working snapshot. It is recomputed from scratch on every
// request, never persisted.
type ChangeSet struct {
	DataFile    string         `json:"dataFile"`
	Changes     []ChangeRecord `json:"changes"`
	UpdatedData Snapshot       `json:"updatedData"`
}

// Component binds one document to one content snapshot.
type Component struct {
	mu       sync.RWMutex
	doc      *dom.Document
	store    *snapshot.Store
	renderer *render.Renderer
	tracker  *edit.Tracker
	loader   *content.Loader
	logger   *log.Logger
	dataFile string
}

// ComponentOption configures a Component instance.
type ComponentOption func(*Component) error

// WithHTTPClient sets the client used for content fetches.
func WithHTTPClient(client *http.Client) ComponentOption {
	return func(c *Component) error {
		c.loader = content.NewLoader(client)
		return nil
	}
}

// WithLogger routes the component's warnings to a specific logger.
func WithLogger(l *log.Logger) ComponentOption {
	return func(c *Component) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = l
		c.renderer = render.NewRenderer(render.WithLogger(l))
		return nil
	}
}

// NewComponent creates an uninitialized Component.
func NewComponent(options ...ComponentOption) (*Component, error) {
	c := &Component{
		renderer: render.NewRenderer(),
		tracker:  edit.NewTracker(),
		loader:   content.NewLoader(nil),
		logger:   log.Default(),
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, fmt.Errorf("failed to apply component option: %w", err)
		}
	}
	return c, nil
}

// Initialize fetches the content file, loads the snapshots, and paints the
// document. A load failure is logged and terminal for this component: no
// render is attempted and the page stays untouched. There is no retry.
func (c *Component) Initialize(ctx context.Context, doc *dom.Document, contentFileURL string) error {
	file, err := c.loader.Fetch(ctx, contentFileURL)
	if err != nil {
		c.logger.Printf("pagebind: initialization aborted: %v", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
	c.dataFile = contentFileURL
	c.store = snapshot.NewStore(file.SourceID, file.Data)
	c.renderer.RenderDocument(doc, c.store.WorkingData())
	return nil
}

// InitializeData loads a document and an already-decoded content value,
// bypassing the network fetch. Hosts that hold the content themselves (the
// serve command, the terminal editor, tests) use this entry point.
func (c *Component) InitializeData(doc *dom.Document, sourceID string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
	c.dataFile = sourceID
	c.store = snapshot.NewStore(sourceID, data)
	c.renderer.RenderDocument(doc, c.store.WorkingData())
}

// EnableEditing makes every bound editable node content-editable.
func (c *Component) EnableEditing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireInit(); err != nil {
		return err
	}
	c.tracker.Enable(c.doc)
	return nil
}

// DisableEditing revokes content-editability across the live document,
// covering nodes added by re-renders since editing was enabled.
func (c *Component) DisableEditing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireInit(); err != nil {
		return err
	}
	c.tracker.Disable(c.doc)
	return nil
}

// IsEditing reports whether editing is currently enabled.
func (c *Component) IsEditing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracker.Enabled()
}

// CaptureBlur records a loss-of-focus edit on a bound node, writing its
// trimmed text back into the working snapshot at the node's tagged path.
func (c *Component) CaptureBlur(node *html.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireInit(); err != nil {
		return err
	}
	return c.tracker.CaptureBlur(node, c.store)
}

// UpdateValue writes a pre-typed JSON value at a path in the working
// snapshot and refreshes the affected part of the document: array values
// re-render their repeated container or paragraph list, scalars rewrite the
// bound nodes in place (text, href and src bindings alike).
func (c *Component) UpdateValue(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireInit(); err != nil {
		return err
	}
	if err := c.store.Assign(path, value); err != nil {
		return err
	}
	if _, ok := value.([]any); ok {
		c.rerenderContainer(path)
	}
	c.refreshBoundNodes(path)
	return nil
}

// ReplaceArray assigns a full new sequence at a path and re-renders that
// path's repeated container or paragraph list.
func (c *Component) ReplaceArray(path string, items []any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireInit(); err != nil {
		return err
	}
	if err := c.store.Assign(path, items); err != nil {
		return err
	}
	c.rerenderContainer(path)
	c.refreshBoundNodes(path)
	return nil
}

// InsertArrayItem prepends an item to the array at a path and re-renders
// its container. The resolved value must already be an array.
func (c *Component) InsertArrayItem(path string, item any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireInit(); err != nil {
		return err
	}
	v, ok := c.store.Resolve(path)
	if !ok {
		return fmt.Errorf("%w: path %q is undefined", ErrNotAnArray, path)
	}
	arr, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%w: path %q resolved to %T", ErrNotAnArray, path, v)
	}

	next := make([]any, 0, len(arr)+1)
	next = append(next, item)
	next = append(next, arr...)
	if err := c.store.Assign(path, next); err != nil {
		return err
	}
	c.rerenderContainer(path)
	return nil
}

// GetChanges recomputes the changelist against the pristine snapshot and
// returns it with the full working snapshot.
func (c *Component) GetChanges() (ChangeSet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireInit(); err != nil {
		return ChangeSet{}, err
	}

	records := diff.Diff(c.store.OriginalData(), c.store.WorkingData())
	changes := make([]ChangeRecord, len(records))
	for i, r := range records {
		changes[i] = ChangeRecord{
			Path:     r.Path,
			OldValue: r.OldValue,
			NewValue: r.NewValue,
			Kind:     ChangeKind(r.Kind),
		}
	}

	working := c.store.Working()
	return ChangeSet{
		DataFile: c.dataFile,
		Changes:  changes,
		UpdatedData: Snapshot{
			SourceID: working.SourceID,
			Data:     working.Data,
		},
	}, nil
}

// GetCurrentSnapshot returns a deep copy of the working snapshot.
func (c *Component) GetCurrentSnapshot() (Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireInit(); err != nil {
		return Snapshot{}, err
	}
	working := c.store.Working()
	return Snapshot{SourceID: working.SourceID, Data: working.Data}, nil
}

// Document returns the live document. The DOM glue layer needs it to route
// blur events back into CaptureBlur.
func (c *Component) Document() *dom.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc
}

// RenderHTML serializes the live document, optionally minified.
func (c *Component) RenderHTML(minified bool) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireInit(); err != nil {
		return "", err
	}
	out, err := c.doc.RenderString()
	if err != nil {
		return "", err
	}
	if minified {
		out = minifyHTML(out)
	}
	return out, nil
}

// rerenderContainer regenerates the repeated container bound to path, if
// the page has one, and re-marks its fresh nodes editable without touching
// nodes elsewhere in the document.
func (c *Component) rerenderContainer(path string) {
	for _, container := range c.doc.FindAll(render.AttrRepeat) {
		if p, _ := dom.Attr(container, render.AttrRepeat); p != path {
			continue
		}
		if insideTemplateDefinition(container) {
			continue
		}
		if err := c.renderer.RenderContainer(container, c.store.WorkingData()); err != nil {
			c.logger.Printf("pagebind: re-render of %q failed: %v", path, err)
			continue
		}
		c.tracker.MarkSubtree(container)
	}
}

// refreshBoundNodes rewrites nodes tagged with exactly this path from the
// working snapshot, dispatching per binding kind. Paragraphs generated by a
// list binding are refreshed through their container, never individually.
func (c *Component) refreshBoundNodes(path string) {
	v, ok := jsonpath.Resolve(c.store.WorkingData(), path)
	if !ok {
		return
	}
	for _, n := range c.doc.FindAll(render.AttrPath) {
		p, _ := dom.Attr(n, render.AttrPath)
		if p != path || insideParagraphList(n) {
			continue
		}
		c.renderer.RefreshNode(n, v)
		if _, ok := dom.Attr(n, render.AttrBindHTML); ok {
			c.tracker.MarkSubtree(n)
		}
	}
}

// insideTemplateDefinition reports nodes under a template definition; those
// stay inert blueprints and are never rendered in place.
func insideTemplateDefinition(n *html.Node) bool {
	return dom.HasAncestor(n, func(p *html.Node) bool {
		_, ok := dom.Attr(p, render.AttrTemplate)
		return ok
	})
}

func insideParagraphList(n *html.Node) bool {
	return dom.HasAncestor(n, func(p *html.Node) bool {
		_, ok := dom.Attr(p, render.AttrBindHTML)
		return ok
	})
}

func (c *Component) requireInit() error {
	if c.store == nil || c.doc == nil {
		return fmt.Errorf("component is not initialized")
	}
	return nil
}
