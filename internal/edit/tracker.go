// Package edit toggles inline editability on bound nodes and writes
// captured edits back into the working snapshot. The tracker has exactly two
// states, disabled and enabled, and no per-node bookkeeping: enable and
// disable both re-query the live document, since array re-renders may add or
// replace editable nodes between the two calls.
package edit

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/pagebind/pagebind/internal/dom"
	"github.com/pagebind/pagebind/internal/render"
	"github.com/pagebind/pagebind/internal/snapshot"
)

// ContentEditableAttr is the attribute toggled on editable nodes.
const ContentEditableAttr = "contenteditable"

// Tracker drives the editing lifecycle for one document.
type Tracker struct {
	enabled bool
}

// NewTracker returns a tracker in the disabled state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Enabled reports whether editing is active.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// Enable marks every currently editable node content-editable.
func (t *Tracker) Enable(doc *dom.Document) {
	t.enabled = true
	t.MarkSubtree(doc.Root())
}

// Disable revokes content-editability. The document is re-queried rather
// than replaying the enable-time node set: containers re-rendered while
// editing was active have fresh nodes that must be covered too.
func (t *Tracker) Disable(doc *dom.Document) {
	t.enabled = false
	for _, n := range doc.FindAll(render.AttrEditable) {
		dom.RemoveAttr(n, ContentEditableAttr)
	}
}

// MarkSubtree marks editable nodes within root content-editable. Used on
// enable for the whole document and after a container re-render for just
// that container, so nodes outside it are never touched again.
func (t *Tracker) MarkSubtree(root *html.Node) {
	if !t.enabled {
		return
	}
	for _, n := range dom.FindAll(root, render.AttrEditable) {
		dom.SetAttr(n, ContentEditableAttr, "true")
	}
}

// CaptureBlur records a loss-of-focus edit: the node's trimmed text content
// is written to its tagged path in the working snapshot. Text is stored as a
// string without type coercion; NFC normalization keeps composed characters
// stable across editing surfaces. The blur observer only exists in the
// enabled state, so a capture while disabled is a caller error and the
// snapshot stays untouched.
func (t *Tracker) CaptureBlur(node *html.Node, store *snapshot.Store) error {
	if !t.enabled {
		return fmt.Errorf("edit capture while editing is disabled")
	}
	path, ok := dom.Attr(node, render.AttrPath)
	if !ok {
		return fmt.Errorf("edit capture: node carries no %s tag", render.AttrPath)
	}
	text := norm.NFC.String(strings.TrimSpace(dom.Text(node)))
	if err := store.Assign(path, text); err != nil {
		return fmt.Errorf("edit capture at %q: %w", path, err)
	}
	return nil
}
