package walker

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"tree-report/internal/config"
	"tree-report/internal/linecount"
)

// Box-drawing glyphs shared by every report line.
const (
	BranchConnector = "├── "
	LastConnector   = "└── "
	BranchIndent    = "│   "
	LastIndent      = "    "
)

type Kind int

const (
	KindDir Kind = iota
	KindFile
	// KindInaccessible marks a directory whose listing failed.
	KindInaccessible
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	case KindInaccessible:
		return "inaccessible"
	default:
		return "unknown"
	}
}

type Entry struct {
	Name    string
	Path    string
	Kind    Kind
	Depth   int
	Prefix  string // indentation inherited from ancestors
	Last    bool   // last sibling at this level
	Symlink bool
	Lines   int
	// Err is the listing error for KindInaccessible and the line count
	// error for KindFile (Lines is then 0).
	Err error
}

func Connector(last bool) string {
	if last {
		return LastConnector
	}
	return BranchConnector
}

func ChildIndent(last bool) string {
	if last {
		return LastIndent
	}
	return BranchIndent
}

type Options struct {
	Ignore     config.NameSet
	Extensions config.NameSet
	// CountLines defaults to linecount.CountFile.
	CountLines func(path string) (int, error)
}

type Walker struct {
	ignore     config.NameSet
	extensions config.NameSet
	countLines func(path string) (int, error)
	fold       cases.Caser
}

func New(opts Options) *Walker {
	w := &Walker{
		ignore:     opts.Ignore,
		extensions: opts.Extensions,
		countLines: opts.CountLines,
		fold:       cases.Fold(),
	}
	if w.ignore == nil {
		w.ignore = config.NameSet{}
	}
	if w.extensions == nil {
		w.extensions = config.NameSet{}
	}
	if w.countLines == nil {
		w.countLines = linecount.CountFile
	}
	return w
}

// Walk yields the tree under root depth-first, one entry per report line.
// Directories come before files at each level. Nothing is read ahead of
// the consumer: stopping the iteration stops the traversal.
func (w *Walker) Walk(root string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		w.walkDir(root, "", 0, yield)
	}
}

// walkDir returns false once the consumer has stopped.
func (w *Walker) walkDir(dir, prefix string, depth int, yield func(Entry) bool) bool {
	children, err := w.list(dir)
	if err != nil {
		return yield(Entry{
			Name:   filepath.Base(dir),
			Path:   dir,
			Kind:   KindInaccessible,
			Depth:  depth,
			Prefix: prefix,
			Last:   true,
			Err:    err,
		})
	}

	for i := range children {
		child := children[i]
		child.Depth = depth
		child.Prefix = prefix
		child.Last = i == len(children)-1

		if child.Kind == KindFile {
			lines, err := w.countLines(child.Path)
			if err != nil {
				lines = 0
			}
			child.Lines, child.Err = lines, err
		}

		if !yield(child) {
			return false
		}

		// Symlinked directories are listed but never entered, so cyclic
		// links cannot loop forever.
		if child.Kind == KindDir && !child.Symlink {
			if !w.walkDir(child.Path, prefix+ChildIndent(child.Last), depth+1, yield) {
				return false
			}
		}
	}
	return true
}

type sortable struct {
	entry Entry
	key   string
}

// list reads dir and returns its reportable children, sorted.
func (w *Walker) list(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	dirs := make([]sortable, 0, len(dirEntries))
	files := make([]sortable, 0, len(dirEntries))

	for _, d := range dirEntries {
		name := d.Name()
		path := filepath.Join(dir, name)
		mode := d.Type()
		symlink := mode&fs.ModeSymlink != 0

		if symlink {
			info, err := os.Stat(path)
			if err != nil {
				// Broken link
				continue
			}
			mode = info.Mode().Type()
		}

		if mode.IsDir() {
			if w.ignore.Contains(name) {
				continue
			}
			dirs = append(dirs, sortable{
				entry: Entry{Name: name, Path: path, Kind: KindDir, Symlink: symlink},
				key:   w.fold.String(name),
			})
			continue
		}

		// Devices, sockets and pipes are never opened.
		if !mode.IsRegular() {
			continue
		}
		if !w.extensions.Contains(strings.ToLower(filepath.Ext(name))) {
			continue
		}
		files = append(files, sortable{
			entry: Entry{Name: name, Path: path, Kind: KindFile, Symlink: symlink},
			key:   w.fold.String(name),
		})
	}

	sortByKey(dirs)
	sortByKey(files)

	entries := make([]Entry, 0, len(dirs)+len(files))
	for _, s := range dirs {
		entries = append(entries, s.entry)
	}
	for _, s := range files {
		entries = append(entries, s.entry)
	}
	return entries, nil
}

// sortByKey orders by folded name; the raw name breaks ties so the order
// does not depend on what the filesystem returned first.
func sortByKey(items []sortable) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].key != items[j].key {
			return items[i].key < items[j].key
		}
		return items[i].entry.Name < items[j].entry.Name
	})
}
