package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/display"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/metrics"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/profile"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/serial"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/session"
)

const shutdownTimeout = 5 * time.Second

// SessionRunner runs fn on the session goroutine.
type SessionRunner interface {
	Do(ctx context.Context, fn func(s *session.Session) error) error
}

type StatusProvider interface {
	Status() display.Status
}

type Rescanner interface {
	Rescan() (string, error)
	State() entity.LinkState
	Address() string
}

// Server is the control API replacing the configuration dialog.
type Server struct {
	sessions SessionRunner
	view     StatusProvider
	link     Rescanner
	server   http.Server
}

func New(addr string, sessions SessionRunner, view StatusProvider, link Rescanner) *Server {
	s := &Server{
		sessions: sessions,
		view:     view,
		link:     link,
		server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	s.server.Handler = s.Router()
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/status", s.status).Methods(http.MethodGet)
	r.HandleFunc("/profiles", s.listProfiles).Methods(http.MethodGet)
	r.HandleFunc("/profiles", s.createProfile).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{name}", s.saveProfile).Methods(http.MethodPut)
	r.HandleFunc("/profiles/{name}", s.deleteProfile).Methods(http.MethodDelete)
	r.HandleFunc("/profiles/{name}/rename", s.renameProfile).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{name}/duplicate", s.duplicateProfile).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{name}/select", s.selectProfile).Methods(http.MethodPost)
	r.HandleFunc("/settings", s.updateSettings).Methods(http.MethodPut)
	r.HandleFunc("/serial/rescan", s.rescan).Methods(http.MethodPost)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("control api listening", "address", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

type linkStatus struct {
	State   string `json:"state"`
	Address string `json:"address"`
}

type statusResponse struct {
	Display display.Status `json:"display"`
	Link    linkStatus     `json:"link"`
}

type profilesResponse struct {
	Current  string           `json:"current"`
	Profiles []entity.Profile `json:"profiles"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type actionsRequest struct {
	Actions []string `json:"actions"`
}

type settingsRequest struct {
	CycleProfiles       *bool `json:"cycle_profiles"`
	ShowWindowOnStartup *bool `json:"show_window_on_startup"`
	AutorunAtStartup    *bool `json:"autorun_at_startup"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Display: s.view.Status(),
		Link: linkStatus{
			State:   s.link.State().String(),
			Address: s.link.Address(),
		},
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	var snapshot session.Snapshot
	err := s.sessions.Do(r.Context(), func(sess *session.Session) error {
		snapshot = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profilesResponse{
		Current:  snapshot.Settings.CurrentProfile,
		Profiles: snapshot.Profiles,
	})
}

func (s *Server) createProfile(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !readJSON(w, r, &req) {
		return
	}

	s.run(w, r, http.StatusCreated, func(sess *session.Session) error {
		return sess.CreateProfile(req.Name)
	})
}

func (s *Server) saveProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req actionsRequest
	if !readJSON(w, r, &req) {
		return
	}

	s.run(w, r, http.StatusOK, func(sess *session.Session) error {
		return sess.SaveProfile(name, req.Actions)
	})
}

func (s *Server) deleteProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	s.run(w, r, http.StatusOK, func(sess *session.Session) error {
		return sess.DeleteProfile(name)
	})
}

func (s *Server) renameProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req nameRequest
	if !readJSON(w, r, &req) {
		return
	}

	s.run(w, r, http.StatusOK, func(sess *session.Session) error {
		return sess.RenameProfile(name, req.Name)
	})
}

func (s *Server) duplicateProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req nameRequest
	if !readJSON(w, r, &req) {
		return
	}

	s.run(w, r, http.StatusCreated, func(sess *session.Session) error {
		return sess.DuplicateProfile(name, req.Name)
	})
}

func (s *Server) selectProfile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	s.run(w, r, http.StatusOK, func(sess *session.Session) error {
		return sess.SwitchProfile(name)
	})
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !readJSON(w, r, &req) {
		return
	}

	s.run(w, r, http.StatusOK, func(sess *session.Session) error {
		if req.CycleProfiles != nil {
			if err := sess.SetCycleProfiles(*req.CycleProfiles); err != nil {
				return err
			}
		}
		if req.ShowWindowOnStartup != nil {
			if err := sess.SetShowWindowOnStartup(*req.ShowWindowOnStartup); err != nil {
				return err
			}
		}
		if req.AutorunAtStartup != nil {
			if err := sess.SetAutorunAtStartup(*req.AutorunAtStartup); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Server) rescan(w http.ResponseWriter, r *http.Request) {
	address, err := s.link.Rescan()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, linkStatus{State: s.link.State().String(), Address: address})
}

// run applies fn and answers with the resulting profile list.
func (s *Server) run(w http.ResponseWriter, r *http.Request, code int, fn func(sess *session.Session) error) {
	var snapshot session.Snapshot
	err := s.sessions.Do(r.Context(), func(sess *session.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		snapshot = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, code, profilesResponse{
		Current:  snapshot.Settings.CurrentProfile,
		Profiles: snapshot.Profiles,
	})
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		zap.S().Errorw("control request failed", "error", err)
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, profile.ErrDuplicateName), errors.Is(err, profile.ErrLastProfile):
		return http.StatusConflict
	case errors.Is(err, profile.ErrNotFound), errors.Is(err, serial.ErrNoPort):
		return http.StatusNotFound
	case errors.Is(err, profile.ErrEmptyName), errors.Is(err, profile.ErrActionCount):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrStopped), errors.Is(err, session.ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("failed to write response", "error", err)
	}
}
