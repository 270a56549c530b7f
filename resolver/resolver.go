// Package resolver implements the FileResolver collaborator spec.md
// §6 describes ("the compiler core consumes a FileResolver trait") and
// a default disk-based implementation, modeled on the teacher's
// fs.FS-based source loading in interp.go (isFile, EvalPath).
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by a FileResolver when import_path cannot be
// located relative to importing_file, matching spec.md §6's
// "NotFound" outcome.
var ErrNotFound = errors.New("resolver: file not found")

// FileResolver is the collaborator spec.md §6 names: "resolve(import_path,
// importing_file) → (file_no, bytes, canonical_path) or NotFound /
// IoError". file_no allocation is the caller's job (it needs a shared
// token.FileSet), so Resolve returns the canonical path and bytes; the
// loader in this package assigns the FileNo.
type FileResolver interface {
	// Resolve returns the canonical path and contents of importPath as
	// seen from importingFile ("" for the root file). A failure to
	// locate the file must wrap ErrNotFound so callers can distinguish
	// it from an I/O error on a file that does exist.
	Resolve(importPath, importingFile string) (canonicalPath string, src []byte, err error)
}

// OSResolver resolves imports against a real filesystem rooted at
// Root, remapping import path prefixes per Remappings first (e.g.
// "@openzeppelin/=lib/openzeppelin-contracts/") the way solc's
// import remapping and the teacher's SourcecodeFilesystem option both
// let the caller redirect where source is actually read from.
type OSResolver struct {
	Root        string
	Remappings  map[string]string // prefix -> replacement, longest-prefix wins
	IncludePath []string          // additional search roots, tried after the importing file's own directory
}

// NewOSResolver returns an OSResolver rooted at root with no
// remappings or include paths.
func NewOSResolver(root string) *OSResolver {
	return &OSResolver{Root: root}
}

func (r *OSResolver) Resolve(importPath, importingFile string) (string, []byte, error) {
	candidates := r.candidates(importPath, importingFile)
	var lastErr error
	for _, c := range candidates {
		b, err := os.ReadFile(c)
		if err == nil {
			canon, cerr := filepath.Rel(r.Root, c)
			if cerr != nil {
				canon = c
			}
			return filepath.ToSlash(canon), b, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		lastErr = err
	}
	if lastErr != nil {
		return "", nil, fmt.Errorf("resolver: reading %q: %w", importPath, lastErr)
	}
	return "", nil, fmt.Errorf("%w: %q (imported from %q)", ErrNotFound, importPath, importingFile)
}

func (r *OSResolver) candidates(importPath, importingFile string) []string {
	remapped := r.applyRemapping(importPath)
	if path.IsAbs(remapped) {
		return []string{filepath.FromSlash(remapped)}
	}
	var dirs []string
	if importingFile != "" {
		dirs = append(dirs, filepath.Join(r.Root, filepath.Dir(importingFile)))
	}
	dirs = append(dirs, r.Root)
	for _, inc := range r.IncludePath {
		dirs = append(dirs, inc)
	}
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, filepath.Join(d, filepath.FromSlash(remapped)))
	}
	return out
}

func (r *OSResolver) applyRemapping(importPath string) string {
	best := ""
	var bestTarget string
	for prefix, target := range r.Remappings {
		if strings.HasPrefix(importPath, prefix) && len(prefix) > len(best) {
			best, bestTarget = prefix, target
		}
	}
	if best == "" {
		return importPath
	}
	return bestTarget + strings.TrimPrefix(importPath, best)
}
