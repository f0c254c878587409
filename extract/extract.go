// Package extract scans Go source trees for translatable strings passed to
// gettext-style calls and folds them into a template catalog.
package extract

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/potools/pocat"
)

var (
	ErrNotString  = errors.New("not a string constant")
	ErrBadKeyword = errors.New("bad keyword")
	ErrOutOfRange = errors.New("argument index out of range")
)

// Keyword describes one translation call to look for and which arguments
// carry the msgid, plural and context.
type Keyword struct {
	name, pkg                      string
	msgid, msgidPlural, msgContext int
}

// ParseKeyword parses a keyword spec of the form [PKG.]FUNC[:ARG,...],
// where ARG is a 1-based argument position and a "c" suffix marks the
// context argument, e.g. "NPGettext:1c,2,3".
func ParseKeyword(spec string) (*Keyword, error) {
	function := spec
	var args []string
	if idx := strings.IndexByte(spec, ':'); idx >= 0 {
		function = spec[:idx]
		args = strings.Split(spec[idx+1:], ",")
	}
	var pkg string
	if idx := strings.IndexByte(function, '.'); idx >= 0 {
		pkg = function[:idx]
		function = function[idx+1:]
		if strings.IndexByte(function, '.') >= 0 {
			return nil, ErrBadKeyword
		}
	}

	k := &Keyword{
		name:        function,
		pkg:         pkg,
		msgid:       0,
		msgidPlural: -1,
		msgContext:  -1,
	}
	positional := 0
	for _, arg := range args {
		if arg == "" {
			return nil, ErrBadKeyword
		}
		if arg[len(arg)-1] == 'c' {
			val, err := strconv.Atoi(arg[:len(arg)-1])
			if err != nil {
				return nil, err
			}
			k.msgContext = val - 1
			continue
		}
		val, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		switch positional {
		case 0:
			k.msgid = val - 1
		case 1:
			k.msgidPlural = val - 1
		default:
			return nil, ErrBadKeyword
		}
		positional++
	}
	return k, nil
}

// DefaultKeywords covers the conventional gettext call family.
func DefaultKeywords() []*Keyword {
	var keywords []*Keyword
	for _, spec := range []string{
		"Gettext:1",
		"NGettext:1,2",
		"PGettext:1c,2",
		"NPGettext:1c,2,3",
	} {
		k, err := ParseKeyword(spec)
		if err != nil {
			panic(err)
		}
		keywords = append(keywords, k)
	}
	return keywords
}

func (k *Keyword) match(call *ast.CallExpr) bool {
	var pkg, name string
	switch e := call.Fun.(type) {
	case *ast.Ident:
		name = e.Name
	case *ast.SelectorExpr:
		name = e.Sel.Name
		if ident, ok := e.X.(*ast.Ident); ok {
			pkg = ident.Name
		}
	default:
		return false
	}
	if name != k.name {
		return false
	}
	return k.pkg == "" || k.pkg == pkg
}

func (k *Keyword) extract(call *ast.CallExpr) (id pocat.ID, context string, err error) {
	if k.msgid >= len(call.Args) {
		return pocat.ID{}, "", ErrOutOfRange
	}
	singular, err := stringConstant(call.Args[k.msgid])
	if err != nil {
		return pocat.ID{}, "", err
	}
	id = pocat.SingularID(singular)
	if k.msgidPlural >= 0 {
		if k.msgidPlural >= len(call.Args) {
			return pocat.ID{}, "", ErrOutOfRange
		}
		plural, err := stringConstant(call.Args[k.msgidPlural])
		if err != nil {
			return pocat.ID{}, "", err
		}
		id = pocat.PluralID(singular, plural)
	}
	if k.msgContext >= 0 {
		if k.msgContext >= len(call.Args) {
			return pocat.ID{}, "", ErrOutOfRange
		}
		context, err = stringConstant(call.Args[k.msgContext])
		if err != nil {
			return pocat.ID{}, "", err
		}
	}
	return id, context, nil
}

// stringConstant evaluates an expression that must be a compile-time string:
// a literal, a parenthesised literal, or a concatenation of such.
func stringConstant(expr ast.Expr) (string, error) {
	switch val := expr.(type) {
	case *ast.BasicLit:
		if val.Kind != token.STRING {
			return "", ErrNotString
		}
		return strconv.Unquote(val.Value)
	case *ast.BinaryExpr:
		if val.Op != token.ADD {
			return "", ErrNotString
		}
		left, err := stringConstant(val.X)
		if err != nil {
			return "", err
		}
		right, err := stringConstant(val.Y)
		if err != nil {
			return "", err
		}
		return left + right, nil
	case *ast.ParenExpr:
		return stringConstant(val.X)
	}
	return "", ErrNotString
}

// Occurrence is one translatable string found in source.
type Occurrence struct {
	File     string
	Line     int
	ID       pocat.ID
	Comments []string
	Context  string
}

// Options configure a scan. Zero keywords means DefaultKeywords; Exclude
// defaults to skipping vendor and testdata directories.
type Options struct {
	Keywords []*Keyword
	// CommentTags keeps extractor comments only when the comment group
	// directly above a call starts with one of these tags. Empty keeps
	// every such comment group.
	CommentTags  []string
	IncludeTests bool
	Exclude      []string
}

func (o Options) keywords() []*Keyword {
	if len(o.Keywords) > 0 {
		return o.Keywords
	}
	return DefaultKeywords()
}

func (o Options) excluded(name string) bool {
	exclude := o.Exclude
	if exclude == nil {
		exclude = []string{"vendor", "testdata"}
	}
	for _, dir := range exclude {
		if name == dir {
			return true
		}
	}
	return false
}

type visitor struct {
	opts     Options
	keywords []*Keyword
	fset     *token.FileSet
	file     *ast.File
	found    []Occurrence
}

func (v *visitor) Visit(node ast.Node) ast.Visitor {
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return v
	}
	for _, k := range v.keywords {
		if !k.match(call) {
			continue
		}
		id, context, err := k.extract(call)
		if err != nil {
			break
		}
		pos := v.fset.Position(node.Pos())
		v.found = append(v.found, Occurrence{
			File:     pos.Filename,
			Line:     pos.Line,
			ID:       id,
			Comments: v.commentsBefore(pos),
			Context:  context,
		})
		break
	}
	return v
}

// commentsBefore returns the content of the comment group ending on the
// line directly above pos, filtered by the configured comment tags.
func (v *visitor) commentsBefore(pos token.Position) []string {
	for i := len(v.file.Comments) - 1; i >= 0; i-- {
		cg := v.file.Comments[i]
		if v.fset.Position(cg.End()).Line+1 != pos.Line {
			continue
		}
		lines := commentLines(cg)
		if len(v.opts.CommentTags) == 0 {
			return lines
		}
		for _, tag := range v.opts.CommentTags {
			if len(lines) > 0 && strings.HasPrefix(lines[0], tag) {
				return lines
			}
		}
		return nil
	}
	return nil
}

func commentLines(cg *ast.CommentGroup) []string {
	var lines []string
	for _, comment := range cg.List {
		for _, line := range strings.Split(comment.Text, "\n") {
			line = strings.TrimPrefix(line, "//")
			line = strings.TrimPrefix(line, "/*")
			line = strings.TrimSuffix(line, "*/")
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// FromReader scans a single Go source stream.
func FromReader(filename string, r io.Reader, opts Options) ([]Occurrence, error) {
	v := &visitor{opts: opts, keywords: opts.keywords(), fset: token.NewFileSet()}
	var err error
	v.file, err = parser.ParseFile(v.fset, filename, r, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	ast.Walk(v, v.file)
	return v.found, nil
}

// FromFile scans a single Go source file.
func FromFile(filename string, opts Options) ([]Occurrence, error) {
	v := &visitor{opts: opts, keywords: opts.keywords(), fset: token.NewFileSet()}
	var err error
	v.file, err = parser.ParseFile(v.fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	ast.Walk(v, v.file)
	return v.found, nil
}

// FromDir walks a source tree and scans every Go file, skipping excluded
// directories and, unless opted in, test files. Occurrences come back
// ordered by file then line so repeated scans produce identical templates.
func FromDir(dir string, opts Options) ([]Occurrence, error) {
	var found []Occurrence
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (opts.excluded(name) || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if !opts.IncludeTests && strings.HasSuffix(name, "_test.go") {
			return nil
		}
		occurrences, err := FromFile(path, opts)
		if err != nil {
			return err
		}
		found = append(found, occurrences...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].File != found[j].File {
			return found[i].File < found[j].File
		}
		return found[i].Line < found[j].Line
	})
	return found, nil
}

// Template scans a source tree and folds every occurrence into a fresh
// template catalog.
func Template(dir string, opts Options, cfg pocat.Config) (*pocat.Catalog, error) {
	occurrences, err := FromDir(dir, opts)
	if err != nil {
		return nil, err
	}
	template := pocat.NewCatalog(cfg)
	for _, occ := range occurrences {
		template.Add(occ.ID, nil, pocat.Attrs{
			Locations:    []pocat.Location{{File: occ.File, Line: occ.Line}},
			AutoComments: occ.Comments,
			Context:      occ.Context,
		})
	}
	return template, nil
}
