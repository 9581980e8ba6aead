// Command pagebind-edit is a terminal inspector for pagebind components:
// it binds a page to a content file, applies path-addressed edits, and shows
// the live changelist the host would receive.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/pagebind/pagebind"
	"github.com/pagebind/pagebind/internal/dom"
)

func main() {
	var (
		pagePath    = pflag.String("page", "", "HTML page file")
		contentPath = pflag.String("content", "", "content JSON file ({sourceId, data})")
	)
	pflag.Parse()

	if *pagePath == "" || *contentPath == "" {
		fmt.Fprintln(os.Stderr, "usage: pagebind-edit --page page.html --content content.json")
		os.Exit(2)
	}

	component, sourceID, err := loadComponent(*pagePath, *contentPath)
	if err != nil {
		log.Fatalf("pagebind-edit: %v", err)
	}

	if _, err := tea.NewProgram(initialModel(component, sourceID)).Run(); err != nil {
		log.Fatalf("pagebind-edit: %v", err)
	}
}

func loadComponent(pagePath, contentPath string) (*pagebind.Component, string, error) {
	pageHTML, err := os.ReadFile(pagePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read page: %w", err)
	}
	doc, err := dom.ParseString(string(pageHTML))
	if err != nil {
		return nil, "", err
	}

	body, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read content: %w", err)
	}
	var file struct {
		SourceID string `json:"sourceId"`
		Data     any    `json:"data"`
	}
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, "", fmt.Errorf("malformed content file: %w", err)
	}
	if file.SourceID == "" {
		file.SourceID = contentPath
	}

	component, err := pagebind.NewComponent()
	if err != nil {
		return nil, "", err
	}
	component.InitializeData(doc, file.SourceID, file.Data)
	return component, file.SourceID, nil
}
