// Command pagebind-serve is a demo host for pagebind components. It keeps
// source content documents in a sqlite catalog, binds one page to one
// document, serves the rendered HTML, and exposes the host message protocol
// over a websocket endpoint.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"

	"github.com/pagebind/pagebind"
	"github.com/pagebind/pagebind/internal/contentstore"
	"github.com/pagebind/pagebind/internal/dom"
)

func main() {
	var (
		configPath = pflag.String("config", "", "YAML config file")
		listen     = pflag.String("listen", "", "HTTP listen address (overrides config)")
		database   = pflag.String("db", "", "sqlite content catalog path (overrides config)")
		page       = pflag.String("page", "", "HTML page file (overrides config)")
		contentID  = pflag.String("content", "", "content document to bind (overrides config)")
		importSpec = pflag.String("import", "", "import a content file into the catalog as id=path.json, then exit")
	)
	pflag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("pagebind-serve: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *database != "" {
		cfg.Database = *database
	}
	if *page != "" {
		cfg.Page = *page
	}
	if *contentID != "" {
		cfg.Content = *contentID
	}

	store, err := contentstore.Open(cfg.Database)
	if err != nil {
		log.Fatalf("pagebind-serve: %v", err)
	}
	defer store.Close()

	if *importSpec != "" {
		if err := importContent(store, *importSpec); err != nil {
			log.Fatalf("pagebind-serve: %v", err)
		}
		return
	}

	if cfg.Page == "" || cfg.Content == "" {
		log.Fatal("pagebind-serve: both a page and a content id are required (flags or config)")
	}

	component, err := buildComponent(store, cfg)
	if err != nil {
		log.Fatalf("pagebind-serve: %v", err)
	}

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		out, err := component.RenderHTML(cfg.Minify)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, out)
	})
	r.Get("/content/{id}.json", func(w http.ResponseWriter, req *http.Request) {
		body, err := store.Get(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(body)
	})
	r.Put("/content/{id}", func(w http.ResponseWriter, req *http.Request) {
		var body json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.Put(req.Context(), chi.URLParam(req, "id"), body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/content", func(w http.ResponseWriter, req *http.Request) {
		ids, err := store.List(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ids)
	})
	r.Handle("/host", pagebind.NewBridge(component))

	log.Printf("pagebind-serve: listening on %s (page %s, content %s)", cfg.Listen, cfg.Page, cfg.Content)
	if err := http.ListenAndServe(cfg.Listen, r); err != nil {
		log.Fatalf("pagebind-serve: %v", err)
	}
}

// buildComponent loads the page and its content document and renders once.
func buildComponent(store *contentstore.Store, cfg *Config) (*pagebind.Component, error) {
	pageHTML, err := os.ReadFile(cfg.Page)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	doc, err := dom.ParseString(string(pageHTML))
	if err != nil {
		return nil, err
	}

	body, err := store.Get(context.Background(), cfg.Content)
	if err != nil {
		return nil, err
	}
	var file struct {
		SourceID string `json:"sourceId"`
		Data     any    `json:"data"`
	}
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("malformed content document %q: %w", cfg.Content, err)
	}
	if file.SourceID == "" {
		file.SourceID = cfg.Content
	}

	component, err := pagebind.NewComponent()
	if err != nil {
		return nil, err
	}
	component.InitializeData(doc, file.SourceID, file.Data)
	return component, nil
}

// importContent stores one JSON file in the catalog under the given id.
func importContent(store *contentstore.Store, spec string) error {
	id, path, found := strings.Cut(spec, "=")
	if !found || id == "" || path == "" {
		return fmt.Errorf("import spec must be id=path.json, got %q", spec)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read content file: %w", err)
	}
	if err := store.Put(context.Background(), id, body); err != nil {
		return err
	}
	log.Printf("pagebind-serve: imported %s as %q", path, id)
	return nil
}
