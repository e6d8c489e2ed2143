// Package clips locates the image files referenced by an object's clips
// and binds them to the surfaces that use them.
package clips

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/lwostrut/pkg/encoding"
	"github.com/Faultbox/lwostrut/pkg/lwo"
)

// ErrNoImageFound is returned when no candidate file exists for a clip and
// missing images are not allowed.
var ErrNoImageFound = errors.New("no image found for clip")

// DirToken in a search path stands for the directory holding the object.
const DirToken = "dirpath"

// Resolver locates clip images on disk.
type Resolver struct {
	// SearchPaths are directory templates tried after the stored path.
	// Relative templates are taken from the object's directory.
	SearchPaths []string
	// AbsolutePaths reports resolved files as absolute paths. Otherwise
	// they are relative to the object's directory.
	AbsolutePaths bool
	AllowMissing  bool
	// Probe reads each resolved image's header.
	Probe  bool
	Logger *zap.Logger
}

// Result lists what a resolution pass found.
type Result struct {
	Images  []string // distinct resolved files, in clip id order
	Missing []uint32 // clip ids with no file
}

func (r *Resolver) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// Resolve sets ResolvedPath on every clip of obj. Clips are visited in id
// order.
func (r *Resolver) Resolve(obj *lwo.Object) (*Result, error) {
	dir := "."
	if obj.SourcePath != "" {
		dir = filepath.Dir(obj.SourcePath)
	}
	templates := r.searchDirs(dir)

	res := &Result{}
	for _, id := range slices.Sorted(maps.Keys(obj.Clips)) {
		clip := obj.Clips[id]
		stored := storedPath(obj, clip)
		var found string
		if stored != "" {
			var err error
			if found, err = r.find(dir, stored, templates); err != nil {
				return nil, err
			}
		}
		if found == "" {
			if !r.AllowMissing {
				return nil, fmt.Errorf("%w: clip %d %q (searched %v)", ErrNoImageFound, id, stored, templates)
			}
			r.log().Warn("clip image not found", zap.Uint32("clip", id), zap.String("path", stored))
			clip.Missing = true
			res.Missing = append(res.Missing, id)
			continue
		}

		shown := r.present(dir, found)
		clip.ResolvedPath = shown
		if !slices.Contains(res.Images, shown) {
			res.Images = append(res.Images, shown)
		}
		if r.Probe {
			info, err := ProbeImage(found)
			if err != nil {
				r.log().Warn("could not read image header", zap.String("path", found), zap.Error(err))
			} else {
				clip.Image = info
			}
		}
		r.log().Debug("resolved clip", zap.Uint32("clip", id), zap.String("path", shown))
	}
	return res, nil
}

// storedPath returns the clip's own path, following XREF clips to the clip
// they name.
func storedPath(obj *lwo.Object, clip *lwo.Clip) string {
	seen := map[uint32]bool{}
	for clip != nil && !seen[clip.ID] {
		if clip.Path != "" {
			return clip.Path
		}
		seen[clip.ID] = true
		if clip.XRef == nil {
			return ""
		}
		clip = obj.Clips[clip.XRef.ID]
	}
	return ""
}

// searchDirs expands the search path templates for an object in dir.
func (r *Resolver) searchDirs(dir string) []string {
	out := make([]string, 0, len(r.SearchPaths))
	for _, t := range r.SearchPaths {
		switch {
		case strings.Contains(t, DirToken):
			t = strings.ReplaceAll(t, DirToken, dir)
		case !filepath.IsAbs(t):
			t = filepath.Join(dir, t)
		}
		out = append(out, filepath.Clean(t))
	}
	return out
}

// find returns the first existing candidate for stored: the stored path
// itself, then its base name under each search directory.
func (r *Resolver) find(dir, stored string, templates []string) (string, error) {
	norm := encoding.NormalizePath(stored)
	candidates := []string{norm}
	if !filepath.IsAbs(norm) {
		candidates[0] = filepath.Join(dir, norm)
	}
	base := escapeGlob(filepath.Base(norm))
	for _, t := range templates {
		matches, err := filepath.Glob(filepath.Join(t, base))
		if err != nil {
			return "", fmt.Errorf("search path %q: %w", t, err)
		}
		candidates = append(candidates, matches...)
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		return c, nil
	}
	return "", nil
}

// present formats a found path as absolute or relative to the object's
// directory dir.
func (r *Resolver) present(dir, path string) string {
	if r.AbsolutePaths {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if rel, err := filepath.Rel(absDir, absPath); err == nil {
		return rel
	}
	return filepath.Clean(path)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
