// Package template serves the legacy system-prompt catalog. The built-in
// catalog is embedded; files in an optional override directory replace or
// extend it and are reloaded when they change.
package template

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	domaintemplate "github.com/alanyang/promptdeck/internal/domain/template"
)

//go:embed catalog.yaml
var builtinCatalog []byte

type catalogFile struct {
	Templates []domaintemplate.Template `yaml:"templates"`
}

type entry struct {
	meta domaintemplate.Template
	tmpl *texttemplate.Template
}

// Registry implements port/template.Registry.
type Registry struct {
	dir string

	mu      sync.RWMutex
	entries map[string]entry
	order   []string
}

// New loads the embedded catalog and, when dir is non-empty, every *.yaml
// file in dir on top of it.
func New(dir string) (*Registry, error) {
	r := &Registry{dir: dir}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload rebuilds the catalog from the embedded file and the override
// directory. On error the previous catalog stays in place.
func (r *Registry) Reload() error {
	entries := make(map[string]entry)
	var order []string

	add := func(source string, data []byte) error {
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parsing %s: %w", source, err)
		}
		for _, t := range f.Templates {
			if t.ID == "" {
				return fmt.Errorf("parsing %s: template without id", source)
			}
			tmpl, err := texttemplate.New(t.ID).Option("missingkey=error").Parse(t.Body)
			if err != nil {
				return fmt.Errorf("parsing %s: template %s: %w", source, t.ID, err)
			}
			if _, exists := entries[t.ID]; !exists {
				order = append(order, t.ID)
			}
			entries[t.ID] = entry{meta: t, tmpl: tmpl}
		}
		return nil
	}

	if err := add("embedded catalog", builtinCatalog); err != nil {
		return err
	}
	if r.dir != "" {
		files, err := r.overrideFiles()
		if err != nil {
			return err
		}
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if err := add(path, data); err != nil {
				return err
			}
		}
	}

	r.mu.Lock()
	r.entries = entries
	r.order = order
	r.mu.Unlock()
	return nil
}

func (r *Registry) overrideFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading template dir: %w", err)
	}
	var files []string
	for _, e := range dirEntries {
		if e.IsDir() || !isCatalogFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(r.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isCatalogFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// List returns the catalog in load order: embedded templates first.
func (r *Registry) List() []domaintemplate.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domaintemplate.Summary, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id].meta.Summary())
	}
	return out
}

// Resolve renders the template with id against rc.
func (r *Registry) Resolve(id string, rc domaintemplate.RenderContext) (string, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return "", &domaintemplate.LookupError{ID: id, Err: domaintemplate.ErrUnknownTemplate}
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, rc); err != nil {
		return "", &domaintemplate.LookupError{ID: id, Err: err}
	}
	return buf.String(), nil
}

// Watch reloads the catalog whenever a file in the override directory
// changes. It blocks until ctx is cancelled.
func (r *Registry) Watch(ctx context.Context) error {
	if r.dir == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watching %s: %w", r.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isCatalogFile(filepath.Base(ev.Name)) || ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if err := r.Reload(); err != nil {
				slog.Error("reloading template catalog", "file", ev.Name, "error", err)
				continue
			}
			slog.Info("template catalog reloaded", "file", ev.Name, "op", ev.Op.String())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("template watcher error", "error", err)
		}
	}
}
