package classify

import (
	"path/filepath"
	"strings"
)

// Other is the category assigned to files whose extension matches no category.
const Other = "other"

// File describes a single classified file.
type File struct {
	// Path is the file path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
	// Extension is the lowercased, dot-prefixed extension ("" when absent).
	Extension string `json:"extension"`
	// Category is the content category.
	Category string `json:"category"`
	// MIME is an optional content type hint.
	MIME string `json:"mime,omitempty"`
}

// category pairs a name with the set of extensions it claims.
type category struct {
	name string
	exts map[string]struct{}
}

// Classifier maps file extensions to content categories.
// Custom categories are consulted before the built-in table, in registration order.
// A Classifier is safe for concurrent use once all categories are registered.
type Classifier struct {
	custom  []category
	builtin []category
	sniff   bool
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCategories registers custom categories, applied in sorted name order
// so that map iteration does not make precedence random.
func WithCategories(categories map[string][]string) Option {
	return func(c *Classifier) {
		for _, name := range sortedKeys(categories) {
			c.Register(name, categories[name])
		}
	}
}

// WithSniffing enables content-based MIME detection.
func WithSniffing(enabled bool) Option {
	return func(c *Classifier) {
		c.sniff = enabled
	}
}

// New creates a Classifier with the built-in category table.
func New(opts ...Option) *Classifier {
	c := &Classifier{builtin: builtinCategories()}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register adds a custom category. Extensions are normalized to lowercase with a leading dot.
// Registering an existing custom category replaces its extension set in place.
func (c *Classifier) Register(name string, extensions []string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		if ext = NormalizeExtension(ext); ext != "" {
			exts[ext] = struct{}{}
		}
	}

	for i := range c.custom {
		if c.custom[i].name == name {
			c.custom[i].exts = exts

			return
		}
	}

	c.custom = append(c.custom, category{name: name, exts: exts})
}

// Classify returns the category of the file at path, judged by its extension only.
func (c *Classifier) Classify(path string) string {
	ext := Extension(path)
	if ext == "" {
		return Other
	}

	for _, table := range [][]category{c.custom, c.builtin} {
		for _, cat := range table {
			if _, ok := cat.exts[ext]; ok {
				return cat.name
			}
		}
	}

	return Other
}

// File builds a classified File record for path.
func (c *Classifier) File(path string, size int64) File {
	return File{
		Path:      path,
		Size:      size,
		Extension: Extension(path),
		Category:  c.Classify(path),
		MIME:      c.MIME(path),
	}
}

// Categories returns all category names, custom first, then built-in, then Other.
func (c *Classifier) Categories() []string {
	names := make([]string, 0, len(c.custom)+len(c.builtin)+1)
	seen := make(map[string]struct{})

	for _, table := range [][]category{c.custom, c.builtin} {
		for _, cat := range table {
			if _, ok := seen[cat.name]; ok {
				continue
			}

			seen[cat.name] = struct{}{}
			names = append(names, cat.name)
		}
	}

	if _, ok := seen[Other]; !ok {
		names = append(names, Other)
	}

	return names
}

// Extension returns the lowercased, dot-prefixed extension of path.
// Dotfiles such as ".bashrc" and names ending in a dot have no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)

	if ext == "." || ext == base {
		return ""
	}

	return strings.ToLower(ext)
}

// NormalizeExtension lowercases ext and ensures a leading dot.
// Surrounding quotes and whitespace are stripped.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.Trim(strings.TrimSpace(ext), `'"`))
	if ext == "" || ext == "." {
		return ""
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}
