package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const page = `<!DOCTYPE html>
<html><body>
  <h1 data-bind="title">placeholder</h1>
  <img data-bind-src="hero.image">
  <section data-repeat="articles">
    <template data-template>
      <article><h2 data-bind="headline"></h2></article>
    </template>
  </section>
</body></html>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestFindAllDocumentOrder(t *testing.T) {
	doc := mustParse(t, page)

	binds := doc.FindAll("data-bind")
	if len(binds) != 2 {
		t.Fatalf("FindAll(data-bind) = %d nodes, want 2", len(binds))
	}
	if v, _ := Attr(binds[0], "data-bind"); v != "title" {
		t.Errorf("first bind = %q, want title", v)
	}
	if v, _ := Attr(binds[1], "data-bind"); v != "headline" {
		t.Errorf("second bind = %q, want headline", v)
	}
}

func TestAttrMutation(t *testing.T) {
	doc := mustParse(t, page)
	n := doc.FindAll("data-bind")[0]

	SetAttr(n, "data-path", "title")
	if v, ok := Attr(n, "data-path"); !ok || v != "title" {
		t.Errorf("Attr after SetAttr = %q, %v", v, ok)
	}

	SetAttr(n, "data-path", "other")
	if v, _ := Attr(n, "data-path"); v != "other" {
		t.Errorf("SetAttr did not replace: %q", v)
	}

	RemoveAttr(n, "data-path")
	if _, ok := Attr(n, "data-path"); ok {
		t.Error("RemoveAttr left attribute in place")
	}
}

func TestSetTextAndText(t *testing.T) {
	doc := mustParse(t, page)
	n := doc.FindAll("data-bind")[0]

	SetText(n, "Hello")
	if got := Text(n); got != "Hello" {
		t.Errorf("Text = %q, want Hello", got)
	}

	// SetText must fully replace previous children.
	SetText(n, "Again")
	if got := Text(n); got != "Again" {
		t.Errorf("Text = %q, want Again", got)
	}
}

func TestCloneIsDetachedAndDeep(t *testing.T) {
	doc := mustParse(t, page)
	section := doc.FindAll("data-repeat")[0]
	tmpl := doc.FindAll("data-template")[0]

	clone := Clone(tmpl)
	if clone.Parent != nil || clone.NextSibling != nil || clone.PrevSibling != nil {
		t.Error("clone is still attached")
	}
	if len(FindAll(clone, "data-bind")) != 1 {
		t.Error("clone lost descendants")
	}

	// Mutating the clone must not touch the source tree.
	SetAttr(FindAll(clone, "data-bind")[0], "data-path", "x")
	if _, ok := Attr(FindAll(section, "data-bind")[0], "data-path"); ok {
		t.Error("clone shares attributes with source")
	}
}

func TestInsertBeforeAndRemoveChildren(t *testing.T) {
	doc := mustParse(t, page)
	section := doc.FindAll("data-repeat")[0]
	tmpl := doc.FindAll("data-template")[0]

	a := NewElement("article")
	SetAttr(a, "data-path", "articles[0]")
	InsertBefore(section, a, tmpl)

	kids := ElementChildren(section)
	if len(kids) != 2 || kids[0] != a || kids[1] != tmpl {
		t.Fatalf("unexpected children after InsertBefore: %d", len(kids))
	}

	RemoveChildren(section)
	if section.FirstChild != nil {
		t.Error("RemoveChildren left children attached")
	}
}

func TestHasAncestor(t *testing.T) {
	doc := mustParse(t, page)
	headline := doc.FindAll("data-bind")[1]

	inTemplate := HasAncestor(headline, func(n *html.Node) bool {
		_, ok := Attr(n, "data-template")
		return ok
	})
	if !inTemplate {
		t.Error("headline should report a data-template ancestor")
	}

	title := doc.FindAll("data-bind")[0]
	if HasAncestor(title, func(n *html.Node) bool { _, ok := Attr(n, "data-repeat"); return ok }) {
		t.Error("title should not be inside a repeated container")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	doc := mustParse(t, page)
	out, err := doc.RenderString()
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	if !strings.Contains(out, `data-repeat="articles"`) {
		t.Errorf("render lost binding attributes: %s", out)
	}
	if _, err := ParseString(out); err != nil {
		t.Errorf("re-parse of rendered output failed: %v", err)
	}
}
