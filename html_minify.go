package pagebind

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", html.Minify)
	})
	return minifier
}

// minifyHTML compacts a serialized document. Binding attributes and text
// content survive minification; on a minifier error the document is returned
// unmodified.
func minifyHTML(doc string) string {
	minified, err := getMinifier().String("text/html", doc)
	if err != nil {
		return doc
	}
	return minified
}
