package fsbackend

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/pathutil"
	"github.com/charlesthegreat77/goxdvdfs/xerr"
)

// RemapRule rewrites host paths matching From (a glob, `*` matching within
// one path component and `**` matching across components) into an image
// path given by To, which may reference capture groups from From's
// wildcards positionally as {0}, {1}, ... A From prefixed with "!" negates
// a previous match instead of producing one, letting later rules exclude
// files an earlier broad rule pulled in.
type RemapRule struct {
	From string
	To   string
}

// RemapOverlayConfig is the full set of rewrite rules for a Remap backend.
type RemapOverlayConfig struct {
	Rules []RemapRule
}

type compiledRule struct {
	negate bool
	re     *regexp.Regexp
	to     string
}

func globToRegexp(glob string) *regexp.Regexp {
	return regexp.MustCompile("^" + globFragment(glob, true) + "$")
}

// globFragment compiles glob (or a tail of one, recursively) into a regexp
// fragment. When capture is true, each "*"/"?" gets its own capturing
// group, numbered left to right. A tree wildcard straddled by separators
// ("/**/") also has to match zero intermediate directories, so the
// separator preceding it stays a mandatory literal while the one following
// it folds into an optional group together with everything that follows in
// the pattern: there's no useful way to reference "the directories **
// matched" on their own once more pattern follows, so the capture is
// "whatever matched from there to the end" and any further wildcards
// within it are plain, non-capturing matches.
func globFragment(glob string, capture bool) string {
	var b strings.Builder
	i := 0
	for i < len(glob) {
		c := glob[i]
		switch {
		case capture && c == '/' && i+3 < len(glob) && glob[i+1] == '*' && glob[i+2] == '*' && glob[i+3] == '/':
			b.WriteByte('/')
			rest := globFragment(glob[i+4:], false)
			b.WriteString("((?:.*/)?" + rest + ")")
			return b.String()
		case c == '*' && i+1 < len(glob) && glob[i+1] == '*':
			if capture {
				b.WriteString("(.*)")
			} else {
				b.WriteString(".*")
			}
			i += 2
		case c == '*':
			if capture {
				b.WriteString("([^/]*)")
			} else {
				b.WriteString("[^/]*")
			}
			i++
		case c == '?':
			if capture {
				b.WriteString("([^/])")
			} else {
				b.WriteString("[^/]")
			}
			i++
		case strings.ContainsRune(`.+()|[]{}^$\`, rune(c)):
			b.WriteByte('\\')
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func compileRules(cfg RemapOverlayConfig) []compiledRule {
	out := make([]compiledRule, len(cfg.Rules))
	for i, r := range cfg.Rules {
		from := r.From
		negate := strings.HasPrefix(from, "!")
		if negate {
			from = from[1:]
		}
		out[i] = compiledRule{negate: negate, re: globToRegexp(from), to: r.To}
	}
	return out
}

// expandCaptures substitutes {0}, {1}, ... in to with the corresponding
// entry from groups, where groups[0] is the whole match (so {0} is the
// entire matched host path and {1} is the first capture group).
func expandCaptures(to string, groups []string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(to) {
		if to[i] != '{' {
			out.WriteByte(to[i])
			i++
			continue
		}
		end := strings.IndexByte(to[i:], '}')
		if end < 0 {
			return "", fmt.Errorf("fsbackend: unclosed brace in rewrite %q", to)
		}
		numStr := to[i+1 : i+end]
		n, err := strconv.Atoi(numStr)
		if err != nil {
			return "", fmt.Errorf("fsbackend: non-digit capture reference in rewrite %q", to)
		}
		if n < len(groups) {
			out.WriteString(groups[n])
		}
		i += end + 1
	}
	return out.String(), nil
}

// remapMapEntry's zero value denotes an implicitly generated directory —
// the tree's InsertPath creates exactly these for intermediate path
// components, the same way Memory's zero-value entries denote implicit
// directories. explicit distinguishes that case from a real rule match.
type remapMapEntry struct {
	explicit  bool
	hostPath  pathutil.PathVec
	hostEntry FileEntry
}

// Remap is a rewriting overlay over an inner Backend: at construction it
// walks the entire inner hierarchy once, matches every path against the
// configured rules, and builds an image-side path tree from whichever
// rewritten paths resulted. Later reads and copies are served entirely
// from that precomputed mapping.
//
// Grounded on the reference implementation's RemapOverlayFilesystem, with
// glob matching against full paths reimplemented via stdlib regexp
// (capturing groups stand in for wax::Glob's positional captures) since no
// glob library appears anywhere in the retrieval pack.
type Remap struct {
	inner Backend
	tree  *pathutil.PathPrefixTree[remapMapEntry]
}

// NewRemap builds a Remap overlay by walking inner once and applying cfg's
// rules to every discovered path.
func NewRemap(inner Backend, cfg RemapOverlayConfig) (*Remap, error) {
	rules := compileRules(cfg)
	tree := pathutil.NewPathPrefixTree[remapMapEntry]()

	entries, err := fullWalk(inner)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		rewritten, matched, err := rewritePath(rules, e.path)
		if err != nil {
			return nil, err
		}
		if !matched || rewritten.IsRoot() {
			continue
		}
		tree.InsertPath(rewritten.AsRef(), remapMapEntry{explicit: true, hostPath: e.path, hostEntry: e.entry})
	}

	return &Remap{inner: inner, tree: tree}, nil
}

type walkedEntry struct {
	path  pathutil.PathVec
	entry FileEntry
}

func fullWalk(h Hierarchy) ([]walkedEntry, error) {
	var out []walkedEntry
	dirs := []pathutil.PathVec{pathutil.Root()}
	for len(dirs) > 0 {
		dir := dirs[0]
		dirs = dirs[1:]

		listing, err := h.ReadDir(dir.AsRef())
		if err != nil {
			return nil, err
		}
		for _, e := range listing {
			p := pathutil.FromBase(dir, e.Name)
			out = append(out, walkedEntry{path: p, entry: e})
			if e.FileType == Directory {
				dirs = append(dirs, p)
			}
		}
	}
	return out, nil
}

// rewritePath applies every rule to path, in textual order. The first
// matching non-negating rule wins and later non-negating matches are
// ignored; a matching negating rule clears any match found so far, after
// which a later non-negating rule may match again (mirroring the reference
// implementation's "prefer previously matched patterns" /
// negation-clears-all semantics).
func rewritePath(rules []compiledRule, path pathutil.PathVec) (pathutil.PathVec, bool, error) {
	full := strings.TrimPrefix(path.String(), "/")
	var rewritten pathutil.PathVec
	matched := false

	for _, r := range rules {
		groups := r.re.FindStringSubmatch(full)
		if groups == nil {
			continue
		}
		if r.negate {
			matched = false
			continue
		}
		if matched {
			continue
		}
		to, err := expandCaptures(r.to, groups)
		if err != nil {
			return pathutil.PathVec{}, false, err
		}
		to = strings.TrimPrefix(strings.TrimPrefix(to, "."), "/")
		rewritten = pathutil.FromString(to)
		matched = true
	}

	return rewritten, matched, nil
}

// ReadDir implements Hierarchy over the precomputed rewritten tree.
func (r *Remap) ReadDir(dir pathutil.PathRef) ([]FileEntry, error) {
	subtree := r.tree.LookupSubdir(dir)
	if subtree == nil && !dir.IsRoot() {
		return nil, fmt.Errorf("fsbackend: %w: %s", xerr.ErrDoesNotExist, dir.String())
	}
	if subtree == nil {
		subtree = r.tree
	}

	entries := make([]FileEntry, 0)
	for _, e := range subtree.Iter() {
		entries = append(entries, e.Value.asFileEntry(e.Path))
	}
	return entries, nil
}

func (e remapMapEntry) asFileEntry(name string) FileEntry {
	if !e.explicit {
		return FileEntry{Name: name, FileType: Directory}
	}
	return FileEntry{Name: name, FileType: e.hostEntry.FileType, Len: e.hostEntry.Len}
}

// ClearCache implements Hierarchy; a remap overlay's mapping is built once
// at construction and is not recomputed.
func (r *Remap) ClearCache() error {
	return nil
}

// CopyFileIn implements Copier by resolving src back to its host path and
// delegating to the inner backend.
func (r *Remap) CopyFileIn(src pathutil.PathRef, dest blockdev.Writer, inputOffset, outputOffset, size uint64) (uint64, error) {
	entry, ok := r.tree.Get(src)
	if !ok || !entry.explicit {
		return 0, fmt.Errorf("fsbackend: %w: %s", xerr.ErrDoesNotExist, src.String())
	}
	return r.inner.CopyFileIn(entry.hostPath.AsRef(), dest, inputOffset, outputOffset, size)
}
