package layout

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Run is the executable intent attached to a pane. It is a closed union:
// exactly one of [RunCwd], [RunCommand], [RunEditFile], or [RunPlugin],
// or nil for a default shell pane. Consumers should type-switch
// exhaustively over the four variants.
type Run interface {
	run()
}

// RunCwd starts the default shell in a working directory.
type RunCwd struct {
	Path string
}

// RunCommand executes a command with arguments, optionally in a working
// directory.
type RunCommand struct {
	Command string
	Args    []string
	Cwd     string // empty means inherit

	// HoldOnClose keeps the pane open after the command exits.
	// Defaults to true unless close_on_exit was explicitly set.
	HoldOnClose bool
	// HoldOnStart starts the command suspended until a key is pressed.
	HoldOnStart bool
}

// RunEditFile opens a file in the configured editor, optionally at a
// line number.
type RunEditFile struct {
	Path string
	Line *int
}

// RunPlugin loads a plugin from a parsed location.
type RunPlugin struct {
	Location         PluginLocation
	AllowExecHostCmd bool
}

func (RunCwd) run()      {}
func (RunCommand) run()  {}
func (RunEditFile) run() {}
func (RunPlugin) run()   {}

// PluginLocation is a typed plugin locator derived from a URL.
type PluginLocation struct {
	// Scheme is "zellij" for built-in plugins or "file" for plugins
	// loaded from disk.
	Scheme string
	// Name is the built-in plugin name (zellij:tab-bar -> "tab-bar").
	Name string
	// Path is the filesystem path for file: locations.
	Path string
}

// String renders the location back into URL form.
func (l PluginLocation) String() string {
	if l.Scheme == "file" {
		return "file:" + l.Path
	}
	return l.Scheme + ":" + l.Name
}

// ParsePluginLocation parses a plugin location URL. Supported schemes
// are "zellij" (built-in plugins) and "file" (plugins on disk). URL
// parse failures surface the underlying parser's error.
func ParsePluginLocation(raw string) (PluginLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return PluginLocation{}, err
	}
	switch u.Scheme {
	case "zellij":
		name := u.Opaque
		if name == "" {
			name = strings.TrimPrefix(u.Path, "/")
		}
		if name == "" {
			return PluginLocation{}, fmt.Errorf("plugin location %q has no plugin name", raw)
		}
		return PluginLocation{Scheme: "zellij", Name: name}, nil
	case "file":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if u.Host != "" {
			path = filepath.Join(u.Host, path)
		}
		if path == "" {
			return PluginLocation{}, fmt.Errorf("plugin location %q has no path", raw)
		}
		return PluginLocation{Scheme: "file", Path: path}, nil
	case "":
		return PluginLocation{}, fmt.Errorf("plugin location %q has no scheme", raw)
	}
	return PluginLocation{}, fmt.Errorf("unsupported plugin location scheme: %q", u.Scheme)
}

// MergeRun overlays a consumer's run action on a template's. The
// consumer's action wins, with one exception in each direction: a bare
// working directory on one side grafts onto a concrete command or edit
// action on the other instead of discarding it.
func MergeRun(base, over Run) Run {
	switch {
	case over == nil:
		return base
	case base == nil:
		return over
	}
	if cwd, ok := over.(RunCwd); ok {
		switch b := base.(type) {
		case RunCommand:
			b.Cwd = cwd.Path
			return b
		case RunEditFile:
			b.Path = JoinPath(cwd.Path, b.Path)
			return b
		}
	}
	return over
}

// AddCwd pushes a working-directory prefix onto a run action, returning
// the adjusted action. A nil action becomes a bare RunCwd. Absolute
// paths already present are left untouched by [JoinPath].
func AddCwd(r Run, prefix string) Run {
	switch a := r.(type) {
	case nil:
		return RunCwd{Path: prefix}
	case RunCwd:
		a.Path = JoinPath(prefix, a.Path)
		return a
	case RunCommand:
		if a.Cwd == "" {
			a.Cwd = prefix
		} else {
			a.Cwd = JoinPath(prefix, a.Cwd)
		}
		return a
	case RunEditFile:
		a.Path = JoinPath(prefix, a.Path)
		return a
	}
	// plugins have no working directory
	return r
}

// JoinPath joins prefix and path unless path is already absolute, in
// which case path wins.
func JoinPath(prefix, path string) string {
	if path == "" {
		return prefix
	}
	if filepath.IsAbs(path) {
		return path
	}
	if prefix == "" {
		return path
	}
	return filepath.Join(prefix, path)
}
