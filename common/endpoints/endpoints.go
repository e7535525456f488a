package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/stats"
)

type Addr string

// NewTwitterServer serves health, metrics and any registered admin views on addr.
func NewTwitterServer(addr Addr, stats stats.StatsReceiver) *TwitterServer {
	s := &TwitterServer{
		Addr:  string(addr),
		Stats: stats,
		mux:   http.NewServeMux(),
	}
	s.mux.HandleFunc("/", helpHandler)
	s.mux.HandleFunc("/health", healthHandler)
	s.mux.HandleFunc("/admin/metrics.json", s.statsHandler)
	return s
}

type TwitterServer struct {
	Addr  string
	Stats stats.StatsReceiver
	mux   *http.ServeMux
	srv   *http.Server
}

// AddJSONView registers a read-only view rendered as JSON on every GET.
func (s *TwitterServer) AddJSONView(path string, view func(r *http.Request) (interface{}, error)) {
	s.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		v, err := view(r)
		if err != nil {
			log.WithError(err).Errorf("admin view %s failed", path)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, v)
	})
}

func (s *TwitterServer) Handler() http.Handler {
	return s.mux
}

// Serve blocks until the server is closed.
func (s *TwitterServer) Serve() error {
	s.srv = &http.Server{Addr: s.Addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	log.Info("Serving http & stats on ", s.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *TwitterServer) Close() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Close()
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Common paths: '/health', '/admin/metrics.json', '/admin/contacts.json', '/admin/messages.json'", 501)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok")
}

func (s *TwitterServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(contentTypeHdr, contentTypeVal)

	pretty := r.URL.Query().Get("pretty") == "true"
	str := s.Stats.Render(pretty)
	if _, err := io.Copy(w, bytes.NewBuffer(str)); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
}

const contentTypeHdr = "Content-Type"
const contentTypeVal = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set(contentTypeHdr, contentTypeVal)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithError(err).Error("Unable to encode admin view")
	}
}

// MakeStatsReceiver returns a receiver on a fresh registry, scoped for one binary.
func MakeStatsReceiver(scope string) stats.StatsReceiver {
	return stats.DefaultStatsReceiver().Scope(scope)
}
