// Package render paints a parsed document from a JSON snapshot. Binding
// annotations on the page drive the pass: plain text/href/src bindings are
// resolved and written in place, repeated containers expand one template
// clone per array element. Rendering is stateless; every pass starts from
// the document and the snapshot alone.
package render

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"golang.org/x/net/html"

	"github.com/pagebind/pagebind/internal/dom"
	"github.com/pagebind/pagebind/internal/jsonpath"
)

// Binding attributes, the wire format of the page itself.
const (
	AttrBind     = "data-bind"      // text binding, editable
	AttrBindHref = "data-bind-href" // href binding, read-only
	AttrBindSrc  = "data-bind-src"  // image src binding, editable
	AttrBindHTML = "data-bind-html" // paragraph-list binding
	AttrRepeat   = "data-repeat"    // repeated container
	AttrTemplate = "data-template"  // the single template child of a repeat
	AttrIDBind   = "data-id-bind"   // identifier binding

	// Attributes written during rendering.
	AttrPath          = "data-path"
	AttrEditable      = "data-editable"
	AttrEditableImage = "data-editable-image"
	AttrItemID        = "data-item-id"
)

// ErrNotAnArray reports a repeated container whose path resolved to
// something other than an array.
var ErrNotAnArray = errors.New("repeat path did not resolve to an array")

// ErrMissingTemplate reports a repeated container without a template child.
var ErrMissingTemplate = errors.New("repeated container has no template child")

// Renderer applies binding annotations against a snapshot. The zero value
// is not usable; construct with NewRenderer.
type Renderer struct {
	logger *log.Logger
	now    func() int64 // cache-busting timestamp source, injectable in tests
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger routes render-time warnings to a specific logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithTimestampSource overrides the clock used for cache-defeating query
// suffixes.
func WithTimestampSource(now func() int64) Option {
	return func(r *Renderer) { r.now = now }
}

// NewRenderer creates a renderer with the default logger and clock.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger: log.Default(),
		now:    func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderDocument runs a full pass: plain bindings first, then every
// repeated container. Container failures are warned and skipped so one
// malformed binding never blocks the rest of the page.
func (r *Renderer) RenderDocument(doc *dom.Document, data any) {
	r.renderPlainBindings(doc, data)
	for _, container := range doc.FindAll(AttrRepeat) {
		if insideTemplate(container) {
			continue
		}
		if err := r.RenderContainer(container, data); err != nil {
			r.logger.Printf("pagebind: skipping container: %v", err)
		}
	}
}

// renderPlainBindings handles top-level text, href and src bindings. Nodes
// under a repeated container or template definition are item-scoped and left
// to container rendering.
func (r *Renderer) renderPlainBindings(doc *dom.Document, data any) {
	for _, n := range doc.FindAll(AttrBind) {
		if insideRepeat(n) {
			continue
		}
		path, _ := dom.Attr(n, AttrBind)
		if v, ok := jsonpath.Resolve(data, path); ok {
			dom.SetText(n, formatValue(v))
		}
		dom.SetAttr(n, AttrPath, path)
		dom.SetAttr(n, AttrEditable, "true")
	}

	for _, n := range doc.FindAll(AttrBindHref) {
		if insideRepeat(n) {
			continue
		}
		path, _ := dom.Attr(n, AttrBindHref)
		if v, ok := jsonpath.Resolve(data, path); ok {
			dom.SetAttr(n, "href", r.cacheBust(formatValue(v)))
		}
		dom.SetAttr(n, AttrPath, path)
	}

	for _, n := range doc.FindAll(AttrBindSrc) {
		if insideRepeat(n) {
			continue
		}
		path, _ := dom.Attr(n, AttrBindSrc)
		if v, ok := jsonpath.Resolve(data, path); ok {
			dom.SetAttr(n, "src", r.cacheBust(formatValue(v)))
		}
		dom.SetAttr(n, AttrPath, path)
		dom.SetAttr(n, AttrEditableImage, "true")
	}
}

// RenderContainer regenerates one repeated container from the current
// snapshot: every non-template child is destroyed and one template clone per
// array element is inserted before the template, in array order. This is
// also the re-render entry point after an array mutation.
func (r *Renderer) RenderContainer(container *html.Node, data any) error {
	path, _ := dom.Attr(container, AttrRepeat)

	v, ok := jsonpath.Resolve(data, path)
	if !ok {
		return fmt.Errorf("%w: path %q is undefined", ErrNotAnArray, path)
	}
	arr, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%w: path %q resolved to %T", ErrNotAnArray, path, v)
	}

	tmpl := findTemplate(container)
	if tmpl == nil {
		return fmt.Errorf("%w: path %q", ErrMissingTemplate, path)
	}

	removeExceptTemplate(container, tmpl)

	for i, item := range arr {
		base := jsonpath.Indexed(path, i)
		for _, child := range dom.ElementChildren(tmpl) {
			clone := dom.Clone(child)
			r.applyItemBindings(clone, item, base)
			dom.InsertBefore(container, clone, tmpl)
		}
	}
	return nil
}

// applyItemBindings resolves the four item-scoped binding kinds within a
// template clone, using the element's own value and paths composed under
// arrayPath[i].
func (r *Renderer) applyItemBindings(clone *html.Node, item any, base string) {
	for _, n := range dom.FindAll(clone, AttrBind) {
		rel, _ := dom.Attr(n, AttrBind)
		if v, ok := jsonpath.Resolve(item, rel); ok {
			dom.SetText(n, formatValue(v))
		}
		dom.SetAttr(n, AttrPath, base+"."+rel)
		dom.SetAttr(n, AttrEditable, "true")
	}

	for _, n := range dom.FindAll(clone, AttrBindHTML) {
		rel, _ := dom.Attr(n, AttrBindHTML)
		v, ok := jsonpath.Resolve(item, rel)
		if !ok {
			continue
		}
		r.renderParagraphList(n, v, base+"."+rel)
	}

	for _, n := range dom.FindAll(clone, AttrBindSrc) {
		rel, _ := dom.Attr(n, AttrBindSrc)
		if v, ok := jsonpath.Resolve(item, rel); ok {
			dom.SetAttr(n, "src", r.cacheBust(formatValue(v)))
		}
		dom.SetAttr(n, AttrPath, base+"."+rel)
		dom.SetAttr(n, AttrEditableImage, "true")
	}

	for _, n := range dom.FindAll(clone, AttrIDBind) {
		rel, _ := dom.Attr(n, AttrIDBind)
		if v, ok := jsonpath.Resolve(item, rel); ok {
			dom.SetAttr(n, AttrItemID, formatValue(v))
		}
	}
}

// renderParagraphList writes one editable paragraph per list entry. All
// paragraphs share the same composed path: a single edited paragraph cannot
// be written back individually, only whole-list replacement is well defined.
func (r *Renderer) renderParagraphList(n *html.Node, v any, path string) {
	var entries []string
	switch val := v.(type) {
	case string:
		entries = []string{val}
	case []any:
		for _, e := range val {
			entries = append(entries, formatValue(e))
		}
	default:
		r.logger.Printf("pagebind: paragraph binding %q resolved to %T, skipping", path, v)
		return
	}

	dom.SetAttr(n, AttrPath, path)
	dom.RemoveChildren(n)
	for _, entry := range entries {
		p := dom.NewElement("p")
		dom.SetText(p, entry)
		dom.SetAttr(p, AttrPath, path)
		dom.SetAttr(p, AttrEditable, "true")
		n.AppendChild(p)
	}
}

// RefreshNode rewrites one already-rendered binding in place from a new
// value, dispatching on the node's binding kind the same way a full pass
// does: href and src bindings get a fresh attribute value with a new cache
// suffix, paragraph lists are regenerated, text bindings get new text. Array
// values only apply to paragraph lists; repeated containers have their own
// re-render entry point.
func (r *Renderer) RefreshNode(n *html.Node, v any) {
	if _, ok := dom.Attr(n, AttrBindHref); ok {
		dom.SetAttr(n, "href", r.cacheBust(formatValue(v)))
		return
	}
	if _, ok := dom.Attr(n, AttrBindSrc); ok {
		dom.SetAttr(n, "src", r.cacheBust(formatValue(v)))
		return
	}
	if _, ok := dom.Attr(n, AttrBindHTML); ok {
		path, _ := dom.Attr(n, AttrPath)
		r.renderParagraphList(n, v, path)
		return
	}
	if _, ok := v.([]any); ok {
		return
	}
	dom.SetText(n, formatValue(v))
}

// cacheBust appends a timestamp query suffix so the browser refetches the
// asset. Embedded data URLs carry their content inline and are left alone.
func (r *Renderer) cacheBust(url string) string {
	if len(url) >= 5 && url[:5] == "data:" {
		return url
	}
	sep := "?"
	for _, c := range url {
		if c == '?' {
			sep = "&"
			break
		}
	}
	return url + sep + "t=" + strconv.FormatInt(r.now(), 10)
}

// findTemplate locates the single template definition child of a container.
func findTemplate(container *html.Node) *html.Node {
	for _, c := range dom.ElementChildren(container) {
		if _, ok := dom.Attr(c, AttrTemplate); ok {
			return c
		}
	}
	return nil
}

// removeExceptTemplate detaches every child of the container except the
// template definition itself.
func removeExceptTemplate(container, tmpl *html.Node) {
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		if c != tmpl {
			container.RemoveChild(c)
		}
		c = next
	}
}

func insideRepeat(n *html.Node) bool {
	return dom.HasAncestor(n, func(p *html.Node) bool {
		_, ok := dom.Attr(p, AttrRepeat)
		return ok
	}) || insideTemplate(n)
}

func insideTemplate(n *html.Node) bool {
	return dom.HasAncestor(n, func(p *html.Node) bool {
		_, ok := dom.Attr(p, AttrTemplate)
		return ok
	})
}

// formatValue renders a JSON scalar the way the page should display it.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
