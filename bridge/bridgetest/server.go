// Package bridgetest provides an in-process fake of the launcher backend
// daemon for tests: the same unix-socket command surface and NDJSON event
// stream the real backend exposes, with scriptable fixtures, error
// injection, and per-route call counters.
package bridgetest

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"craftdeck/bridge"

	"github.com/go-chi/chi/v5"
)

// Server is a scriptable fake backend.
type Server struct {
	mu sync.Mutex

	httpSrv    *http.Server
	socketDir  string
	socketPath string

	stored   []bridge.RawInstance
	external []bridge.RawInstance
	mods     []map[string]any
	modpacks []map[string]any
	news     []map[string]any
	settings map[string]any
	accounts []bridge.Account
	servers  []bridge.Server
	statuses map[string]bridge.ServerStatus

	installErr  string
	deleteErr   string
	launchErr   string
	externalErr bool
	searchErr   bool

	installs []bridge.InstallRequest
	calls    map[string]int

	subs map[chan bridge.Event]struct{}
}

// New starts the fake backend on a fresh unix socket.
func New() (*Server, error) {
	dir, err := os.MkdirTemp("", "craftdeck-test-")
	if err != nil {
		return nil, err
	}
	s := &Server{
		socketDir:  dir,
		socketPath: filepath.Join(dir, "backend.sock"),
		settings:   map[string]any{},
		statuses:   map[string]bridge.ServerStatus{},
		calls:      map[string]int{},
		subs:       map[chan bridge.Event]struct{}{},
	}

	r := chi.NewRouter()
	r.Get("/instances", s.handleStored)
	r.Get("/instances/external", s.handleExternal)
	r.Post("/instances", s.handleInstall)
	r.Post("/instances/{id}/launch", s.handleLaunch)
	r.Delete("/instances/{id}", s.handleDelete)
	r.Get("/events", s.handleEvents)
	r.Get("/search/mods", s.handleSearch(&s.mods))
	r.Get("/search/modpacks", s.handleSearch(&s.modpacks))
	r.Get("/news", s.handleSearch(&s.news))
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
	r.Get("/accounts", s.handleAccounts)
	r.Post("/accounts/login", s.handleLogin)
	r.Get("/servers", s.handleServers)
	r.Get("/servers/{id}/status", s.handleServerStatus)
	r.Post("/folders/open", s.handleOpenFolder)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	s.httpSrv = &http.Server{Handler: r}
	go s.httpSrv.Serve(ln)
	return s, nil
}

// SocketPath returns the unix socket the fake backend listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Close stops the server, drops all event subscribers, and removes the socket.
func (s *Server) Close() {
	s.httpSrv.Close()
	s.mu.Lock()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = map[chan bridge.Event]struct{}{}
	s.mu.Unlock()
	os.RemoveAll(s.socketDir)
}

// SetStored scripts the backend-persisted instance payloads.
func (s *Server) SetStored(raw []bridge.RawInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = raw
}

// SetExternal scripts the external-detection payloads.
func (s *Server) SetExternal(raw []bridge.RawInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.external = raw
}

// SetMods scripts the mod search corpus; handlers page through it by
// offset/limit.
func (s *Server) SetMods(items []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mods = items
}

// SetModpacks scripts the modpack search corpus.
func (s *Server) SetModpacks(items []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modpacks = items
}

// SetNews scripts the news feed.
func (s *Server) SetNews(items []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = items
}

// SetSettings scripts the stored launcher settings.
func (s *Server) SetSettings(settings map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// SetAccounts scripts the account list.
func (s *Server) SetAccounts(accounts []bridge.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
}

// SetServers scripts the managed server list and their polled statuses.
func (s *Server) SetServers(servers []bridge.Server, statuses map[string]bridge.ServerStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers = servers
	if statuses != nil {
		s.statuses = statuses
	}
}

// FailInstall makes POST /instances reject with the given message.
func (s *Server) FailInstall(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installErr = msg
}

// FailDelete makes DELETE /instances/{id} reject with the given message.
func (s *Server) FailDelete(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteErr = msg
}

// FailLaunch makes the launch command reject with the given message.
func (s *Server) FailLaunch(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.launchErr = msg
}

// FailExternal makes external detection return a server error.
func (s *Server) FailExternal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalErr = true
}

// FailSearch makes search endpoints return a server error.
func (s *Server) FailSearch(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchErr = fail
}

// Installs returns every install request received so far.
func (s *Server) Installs() []bridge.InstallRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bridge.InstallRequest, len(s.installs))
	copy(out, s.installs)
	return out
}

// Calls returns how many times the named route was hit, e.g.
// "DELETE /instances" or "POST /instances/launch".
func (s *Server) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// Emit pushes an event to every live subscriber.
func (s *Server) Emit(ev bridge.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default: // subscriber stalled; drop rather than block the test
		}
	}
}

// EmitProgress is shorthand for an install-progress event.
func (s *Server) EmitProgress(instanceID string, progress float64) {
	s.Emit(bridge.Event{Type: bridge.EventInstallProgress, InstanceID: instanceID, Progress: progress})
}

// EmitComplete is shorthand for an install-complete event.
func (s *Server) EmitComplete(instanceID string, success bool, errMsg string) {
	s.Emit(bridge.Event{Type: bridge.EventInstallComplete, InstanceID: instanceID, Success: &success, Error: errMsg})
}

func (s *Server) count(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleStored(w http.ResponseWriter, r *http.Request) {
	s.count("GET /instances")
	s.mu.Lock()
	stored := s.stored
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"instances": stored})
}

func (s *Server) handleExternal(w http.ResponseWriter, r *http.Request) {
	s.count("GET /instances/external")
	s.mu.Lock()
	external, fail := s.external, s.externalErr
	s.mu.Unlock()
	if fail {
		writeError(w, http.StatusServiceUnavailable, "external detection unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"instances": external})
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	s.count("POST /instances")
	var req bridge.InstallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed install request")
		return
	}
	s.mu.Lock()
	failMsg := s.installErr
	if failMsg == "" {
		s.installs = append(s.installs, req)
	}
	s.mu.Unlock()
	if failMsg != "" {
		writeError(w, http.StatusInternalServerError, failMsg)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": req.ID})
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	s.count("POST /instances/launch")
	s.mu.Lock()
	failMsg := s.launchErr
	s.mu.Unlock()
	if failMsg != "" {
		writeError(w, http.StatusInternalServerError, failMsg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.count("DELETE /instances")
	s.mu.Lock()
	failMsg := s.deleteErr
	s.mu.Unlock()
	if failMsg != "" {
		writeError(w, http.StatusInternalServerError, failMsg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.count("GET /events")
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	ch := make(chan bridge.Event, 64)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			if err := enc.Encode(ev); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleSearch(corpus *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.count(r.Method + " " + r.URL.Path)
		s.mu.Lock()
		items := *corpus
		fail := s.searchErr
		s.mu.Unlock()
		if fail {
			writeError(w, http.StatusBadGateway, "search backend unavailable")
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 20
		}
		if offset < 0 {
			offset = 0
		}
		if offset > len(items) {
			offset = len(items)
		}
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		writeJSON(w, http.StatusOK, map[string]any{"hits": items[offset:end], "total": len(items)})
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.count("GET /settings")
	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	s.count("PUT /settings")
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed settings payload")
		return
	}
	s.mu.Lock()
	for k, v := range in {
		s.settings[k] = v
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	s.count("GET /accounts")
	s.mu.Lock()
	accounts := s.accounts
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.count("POST /accounts/login")
	writeJSON(w, http.StatusOK, bridge.LoginTicket{
		VerificationURL: "https://example.com/device",
		UserCode:        "ABCD-1234",
	})
}

func (s *Server) handleServers(w http.ResponseWriter, r *http.Request) {
	s.count("GET /servers")
	s.mu.Lock()
	servers := s.servers
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"servers": servers})
}

func (s *Server) handleServerStatus(w http.ResponseWriter, r *http.Request) {
	s.count("GET /servers/status")
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	status, ok := s.statuses[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown server %s", id))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleOpenFolder(w http.ResponseWriter, r *http.Request) {
	s.count("POST /folders/open")
	w.WriteHeader(http.StatusNoContent)
}
