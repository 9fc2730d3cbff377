package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"

	"isomap/internal/geom"
	"isomap/internal/logging"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// refreshDir lists the overlay files of the working directory.
func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() || !geom.Supported(e.Name()) {
			continue
		}
		items = append(items, fileItem{
			title: e.Name(),
			desc:  filepath.Ext(e.Name()),
			path:  filepath.Join(m.cwd, e.Name()),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).title < items[j].(fileItem).title })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no overlay files in current directory"
	}
}

// loadPath reads an overlay file.
func (m *Model) loadPath(p string) {
	o, err := geom.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		logging.Logger().Warn("overlay load failed", "path", p, "err", err)
		return
	}
	m.selPath = p
	m.setOverlay(o, filepath.Base(p))
}

func (m *Model) setOverlay(o *geom.Overlay, name string) {
	m.overlay = o
	m.showOverlay = true
	m.status = fmt.Sprintf("overlay %s: pts=%d ls=%d poly=%d", name, len(o.Points), len(o.Lines), len(o.Polygons))
	logging.Logger().Info("overlay loaded", "name", name,
		"points", len(o.Points), "lines", len(o.Lines), "polygons", len(o.Polygons))
	if m.res == nil {
		m.fit()
	}
	if m.tableMode == tableOverlay {
		m.refreshTable()
	}
}
