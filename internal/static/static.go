// Package static serves the QuestBot front end from a local directory.
package static

import (
	"net/http"
	"os"
	"path/filepath"
)

const indexFile = "index.html"

// DefaultAllowed are the files served by name next to index.html.
var DefaultAllowed = []string{"style.css", "script.js", "export-functions.js"}

type Server struct {
	dir     string
	allowed map[string]bool
}

func New(dir string, allowed []string) *Server {
	s := &Server{dir: dir, allowed: make(map[string]bool, len(allowed))}
	for _, name := range allowed {
		s.allowed[name] = true
	}
	return s
}

// Index serves the root document.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, indexFile)
}

// File serves an allow-listed file by name; any other name gets the root
// document.
func (s *Server) File(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if !s.allowed[name] {
		s.Index(w, r)
		return
	}
	s.serve(w, r, name)
}

// serve writes a file with ServeContent; ServeFile would redirect
// "/index.html" to "./".
func (s *Server) serve(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// Register mounts the front end on mux: "/", "/{filename}" and the whole
// directory under "/static/".
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /{filename}", s.File)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.dir))))
}
