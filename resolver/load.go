package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/solang-go/solang/ast"
	"github.com/solang-go/solang/diag"
	"github.com/solang-go/solang/parser"
	"github.com/solang-go/solang/token"
)

// maxFetchConcurrency bounds how many in-flight Resolve calls a
// single import-graph layer may issue at once (spec.md §5: parsing
// itself stays single-threaded, only the I/O-bound Resolve fan-out is
// concurrent).
const maxFetchConcurrency = 8

// pending is one not-yet-resolved import: the path as written in the
// importing file, and that file's own canonical path (empty for the
// compilation root).
type pending struct {
	importPath    string
	importingFile string
}

// fetched is one successfully resolved and read file.
type fetched struct {
	canonicalPath string
	src           []byte
}

// Load parses rootPath and every file it transitively imports exactly
// once (spec.md §4.2 "a file may appear in multiple import paths but
// is parsed once per compilation"). Two different import strings that
// resolve to the same canonical path are recognized as the same file
// only after resolution — the dedup set is keyed by FileResolver's
// canonical path, not by the raw text following `import`, since two
// relative imports from different directories can name the same file.
//
// Resolution failures are recorded in bag as diag.KindParse
// diagnostics rather than returned as a bare error — by the time a
// FileResolver failure surfaces the caller is already mid-parse, and
// the teacher's own ignoreScannerError idiom is to keep collecting
// rather than abort on the first problem. ctx is checked once per BFS
// layer, matching spec.md §5's "checked at file boundaries, not
// mid-parse".
func Load(ctx context.Context, fset *token.FileSet, r FileResolver, rootPath string, bag *diag.Bag) []*ast.SourceUnit {
	seenCanonical := map[string]bool{}
	var units []*ast.SourceUnit

	layer := []pending{{importPath: rootPath, importingFile: ""}}
	for len(layer) > 0 {
		select {
		case <-ctx.Done():
			bag.Errorf(diag.KindParse, token.Span{}, "compilation cancelled: %v", ctx.Err())
			return units
		default:
		}

		resolved := resolveLayer(layer, r, bag)
		var nextImports []pending
		for _, rf := range resolved {
			if seenCanonical[rf.canonicalPath] {
				continue
			}
			seenCanonical[rf.canonicalPath] = true

			fno := fset.AddFile(rf.canonicalPath, rf.src)
			unit := parser.Parse(fno, rf.src, bag)
			units = append(units, unit)

			for _, part := range unit.Parts {
				imp, ok := part.(*ast.ImportDirective)
				if !ok {
					continue
				}
				nextImports = append(nextImports, pending{importPath: imp.Path, importingFile: rf.canonicalPath})
			}
		}
		layer = nextImports
	}
	return units
}

// resolveLayer resolves every entry in layer concurrently, bounded by
// maxFetchConcurrency, and returns only the ones that resolved
// successfully (failures are recorded in bag, not propagated — a
// missing import in one file should not abort compiling the rest).
func resolveLayer(layer []pending, r FileResolver, bag *diag.Bag) []fetched {
	out := make([]fetched, len(layer))
	ok := make([]bool, len(layer))
	g := new(errgroup.Group)
	g.SetLimit(maxFetchConcurrency)
	for i, entry := range layer {
		i, entry := i, entry
		g.Go(func() error {
			canon, src, err := r.Resolve(entry.importPath, entry.importingFile)
			if err != nil {
				bag.Errorf(diag.KindParse, token.Span{}, "%v", fmt.Errorf("resolving %q: %w", entry.importPath, err))
				return nil
			}
			out[i] = fetched{canonicalPath: canon, src: src}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait() // errors are recorded in bag above, never returned

	resolved := make([]fetched, 0, len(out))
	for i, f := range out {
		if ok[i] {
			resolved = append(resolved, f)
		}
	}
	return resolved
}
