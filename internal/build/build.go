// Package build reads discovered files, splits them, and registers their
// modules and imports in a dependency graph.
package build

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/litdoc/internal/depgraph"
	"github.com/phobologic/litdoc/internal/discover"
	"github.com/phobologic/litdoc/internal/lang"
	"github.com/phobologic/litdoc/internal/model"
	"github.com/phobologic/litdoc/internal/parse"
	"github.com/phobologic/litdoc/internal/ranking"
)

// Options controls Load.
type Options struct {
	Project     lang.Project
	MaxFileSize int // files larger than this many bytes are skipped; <= 0 disables the limit
	Logger      *log.Logger
}

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// Load reads and splits files concurrently. Files that cannot be read, or
// exceed the size limit, are logged and left out. The result keeps the
// order of files.
func Load(ctx context.Context, root string, files []discover.FileEntry, opts Options) ([]model.SourceFile, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	type result struct {
		index int
		file  model.SourceFile
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser
			parsers := make(map[string]*parserPair)

			for idx := range work {
				if ctx.Err() != nil {
					continue
				}
				f := files[idx]
				pp, ok := parsers[f.Language]
				if !ok {
					l := lang.Languages[f.Language]
					q, err := l.GetImportQuery()
					if err != nil {
						// Fall back to prose splitting without imports.
						logger.Warn("failed to compile import query", "language", f.Language, "err", err)
					}
					pp = &parserPair{lang: l, query: q}
					if q != nil {
						pp.parser = l.NewParser()
					}
					parsers[f.Language] = pp
				}

				absPath := filepath.Join(root, filepath.FromSlash(f.Path))
				if opts.MaxFileSize > 0 {
					if fi, err := os.Stat(absPath); err == nil && fi.Size() > int64(opts.MaxFileSize) {
						logger.Warn("skipped", "path", f.Path, "size", fi.Size(), "limit", opts.MaxFileSize)
						continue
					}
				}
				source, err := os.ReadFile(absPath)
				if err != nil {
					logger.Warn("failed to read", "path", f.Path, "err", err)
					continue
				}

				sf := parse.File(pp.lang, opts.Project, pp.parser, pp.query, source, f.Path)
				logger.Debug("parsed", "path", f.Path, "blocks", len(sf.Blocks), "imports", len(sf.Imports))
				results <- result{index: idx, file: sf}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([]model.SourceFile, len(files))
	valid := make([]bool, len(files))
	for r := range results {
		indexed[r.index] = r.file
		valid[r.index] = true
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []model.SourceFile
	for i, v := range valid {
		if v {
			out = append(out, indexed[i])
		}
	}
	return out, nil
}

// Register adds every file's module and imports to g. It runs sequentially;
// a module shared by several files (a Go package) collects the imports of
// all of them and keeps the origin of the first.
func Register(g *depgraph.Graph, files []model.SourceFile) {
	for _, f := range files {
		m := g.AddModule(f.ModuleID, f.Path)
		for _, target := range f.Imports {
			g.AddDependency(m, target)
		}
	}
}

// Index summarizes g and the loaded files for serialization. Modules are
// sorted by rank, highest first; edges are grouped by source id and keep
// declaration order within each module.
func Index(root string, g *depgraph.Graph, files []model.SourceFile) *model.Index {
	ranks := ranking.Rank(g)

	languages := make(map[string]string, len(files))
	for _, f := range files {
		if _, ok := languages[f.ModuleID]; !ok {
			languages[f.ModuleID] = f.Language
		}
	}

	ix := &model.Index{Root: root}
	for _, id := range g.IDs() {
		m, _ := g.Module(id)
		ix.Modules = append(ix.Modules, model.IndexModule{
			ID:       m.ID,
			Origin:   m.Origin,
			Language: languages[m.ID],
			Deps:     len(g.AllDependencies(m.ID)),
			Rank:     ranks[m.ID],
		})
		for _, target := range m.Dependencies {
			_, ok := g.Module(target)
			ix.Edges = append(ix.Edges, model.IndexEdge{Source: m.ID, Target: target, Resolved: ok})
		}
	}
	sort.SliceStable(ix.Modules, func(i, j int) bool {
		return ix.Modules[i].Rank > ix.Modules[j].Rank
	})
	return ix
}
