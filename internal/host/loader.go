// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/modhost/modhost/pkg/sdk"
)

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with a lowercase letter,
// followed by lowercase letters, digits, or hyphens, and cannot end with a
// hyphen. Single character names are allowed.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// Loader validates candidate files and turns them into registry entries.
// It is the only component that crosses the dynamic-loading boundary; all
// symbol resolution is confined behind the Opener/Module seam.
type Loader struct {
	opener Opener
	ignore []glob.Glob
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithOpener sets the module opener. Tests use this to substitute fakes.
func WithOpener(o Opener) LoaderOption {
	return func(l *Loader) {
		l.opener = o
	}
}

// WithIgnoreGlobs sets patterns matched against candidate base names during
// directory scans; matches are skipped silently.
func WithIgnoreGlobs(globs ...glob.Glob) LoaderOption {
	return func(l *Loader) {
		l.ignore = globs
	}
}

// NewLoader creates a loader. Without options it opens real shared objects.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		opener: NewSharedObjectOpener(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CompileIgnorePatterns compiles ignore patterns for WithIgnoreGlobs.
func CompileIgnorePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, oops.With("pattern", p).Wrapf(err, "invalid ignore pattern")
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// ModuleExt returns the native-module filename extension for this platform.
func ModuleExt() string {
	switch runtime.GOOS {
	case "windows":
		return ".dll"
	case "darwin":
		return ".dylib"
	default:
		return ".so"
	}
}

// Validate reports whether path looks like a loadable module: native-module
// extension, existing regular file, and executable (or, on platforms without
// an executable bit, not read-only). It never returns an error; it is a
// pre-filter before an actual load attempt.
func (l *Loader) Validate(path string) bool {
	if filepath.Ext(path) != ModuleExt() {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	if runtime.GOOS == "windows" {
		return info.Mode().Perm()&0o200 != 0
	}
	return info.Mode().Perm()&0o111 != 0
}

// Ignored reports whether the candidate base name matches an ignore pattern.
func (l *Loader) Ignored(name string) bool {
	for _, g := range l.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Load opens the module at path, resolves its factory export, constructs the
// plugin instance, and runs its load hook. On success the returned entry is
// in StateLoaded; enabling is the caller's responsibility. Any failure is
// reported as a single LoadError code carrying a readable cause, and the
// module handle is released before returning.
func (l *Loader) Load(path string) (*Entry, error) {
	loadErr := oops.Code(CodeLoadFailed).With("path", path)

	mod, err := l.opener.Open(path)
	if err != nil {
		return nil, loadErr.Wrapf(err, "open module")
	}

	sym, err := mod.Lookup(sdk.FactorySymbol)
	if err != nil {
		l.discard(mod, path)
		return nil, loadErr.Wrapf(err, "resolve factory export %q", sdk.FactorySymbol)
	}

	factory, ok := sym.(sdk.Factory)
	if !ok {
		l.discard(mod, path)
		return nil, loadErr.Errorf("export %q has type %T, want func() sdk.Plugin", sdk.FactorySymbol, sym)
	}

	p := factory()
	if p == nil {
		l.discard(mod, path)
		return nil, loadErr.Errorf("factory export %q returned nil", sdk.FactorySymbol)
	}

	name := p.Name()
	if !namePattern.MatchString(name) || len(name) > maxNameLength {
		l.discard(mod, path)
		return nil, loadErr.Errorf("plugin name %q must start with a-z, contain only a-z, 0-9, hyphens, and be at most %d characters", name, maxNameLength)
	}

	if _, err := semver.NewVersion(p.Version()); err != nil {
		l.discard(mod, path)
		return nil, loadErr.With("plugin", name).Wrapf(err, "invalid version %q", p.Version())
	}

	if err := p.OnLoad(); err != nil {
		l.discard(mod, path)
		return nil, loadErr.With("plugin", name).Wrapf(err, "on-load hook")
	}

	return &Entry{
		plugin: p,
		module: mod,
		state:  StateLoaded,
	}, nil
}

// discard releases a module that never made it into the registry.
func (l *Loader) discard(mod Module, path string) {
	if err := mod.Close(); err != nil {
		slog.Warn("failed to close rejected module", "path", path, "error", err)
	}
}
