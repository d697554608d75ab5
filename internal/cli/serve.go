package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/panemux/pkg/io"
	"github.com/matzehuels/panemux/pkg/layout"
	"github.com/matzehuels/panemux/pkg/layout/parser"
	"github.com/matzehuels/panemux/pkg/observability"
	"github.com/matzehuels/panemux/pkg/render"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr string
	dirs []string
	cwd  string
}

// newServeCmd creates the serve command, a small HTTP server exposing
// the layouts of one or more directories as JSON and SVG.
func newServeCmd() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout files over HTTP",
		Long: `Serve layout files over HTTP.

Endpoints:
  GET /layouts              list available layouts
  GET /layouts/{name}.json  resolved layout as JSON
  GET /layouts/{name}.svg   layout structure as SVG

Layouts are re-read on every request, so edits show up immediately.

Examples:
  panemux serve --dir ./layouts
  panemux serve --addr :9000 --dir ~/layouts --dir ./examples/layouts`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config serve_addr)")
	cmd.Flags().StringArrayVar(&opts.dirs, "dir", nil, "layout directory (repeatable, overrides config layout_dirs)")
	cmd.Flags().StringVar(&opts.cwd, "cwd", "", "global working directory")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	addr := opts.addr
	if addr == "" {
		addr = cfg.ServeAddr
	}
	dirs := opts.dirs
	if len(dirs) == 0 {
		dirs = cfg.LayoutDirs
	}
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	cwd := opts.cwd
	if cwd == "" {
		cwd = cfg.DefaultCwd
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServeHandler(dirs, cwd),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Serving layouts from %s on %s", strings.Join(dirs, ", "), addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serveHandler resolves layout names against a list of directories.
type serveHandler struct {
	dirs []string
	cwd  string
}

// newServeHandler builds the HTTP routes.
func newServeHandler(dirs []string, cwd string) http.Handler {
	h := &serveHandler{dirs: dirs, cwd: cwd}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestHooks)
	r.Get("/layouts", h.list)
	r.Get("/layouts/{name}.json", h.layoutJSON)
	r.Get("/layouts/{name}.svg", h.layoutSVG)
	return r
}

// requestHooks reports every request to the registered serve hooks.
func requestHooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Serve().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.Serve().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// list responds with the layout names found across all directories.
func (h *serveHandler) list(w http.ResponseWriter, r *http.Request) {
	seen := map[string]bool{}
	var names []string
	for _, dir := range h.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".kdl") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".kdl")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"layouts": names})
}

func (h *serveHandler) layoutJSON(w http.ResponseWriter, r *http.Request) {
	l, err := h.resolve(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = pkgio.WriteJSON(l, w)
}

func (h *serveHandler) layoutSVG(w http.ResponseWriter, r *http.Request) {
	l, err := h.resolve(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	svg, err := render.SVG(r.Context(), render.ToDOT(l, render.DOTOptions{ShowRuns: true}))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// resolve finds name.kdl in the first directory that has it and
// resolves it.
func (h *serveHandler) resolve(name string) (*layout.Layout, error) {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return nil, errNotFound
	}
	for _, dir := range h.dirs {
		path := filepath.Join(dir, name+".kdl")
		src, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		l, err := parser.Parse(string(src), h.cwd)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name+".kdl", err)
		}
		return l, nil
	}
	return nil, errNotFound
}

var errNotFound = errors.New("layout not found")

// writeError maps resolution errors to HTTP responses. Parse errors
// are the client's fault and come back as 422 with the message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, errNotFound) {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
