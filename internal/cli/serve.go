package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mvnq/mvnq/pkg/buildinfo"
	apperrors "github.com/mvnq/mvnq/pkg/errors"
	"github.com/mvnq/mvnq/pkg/registry/maven"
)

// serveCommand creates the "serve" command, exposing the query operations
// as an HTTP JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query operations as an HTTP API",
		Long: `Serve the query operations as an HTTP JSON API.

Endpoints:
  GET /healthz
  GET /v1/search?q=<query>&limit=<n>
  GET /v1/artifacts/{group}/{artifact}/latest?prereleases=<bool>
  GET /v1/artifacts/{group}/{artifact}/versions?limit=<n>&prereleases=<bool>
  GET /v1/artifacts/{group}/{artifact}/{version}/dependencies?scope=<s>&scope=<s>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := c.newMavenClient()
			if err != nil {
				return err
			}
			if host == "" {
				host = cfg.Serve.Host
			}
			if port == 0 {
				port = cfg.Serve.Port
			}

			srv := newServer(client, c.Logger)
			addr := net.JoinHostPort(host, strconv.Itoa(port))
			return srv.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")
	return cmd
}

// server wires the Maven client into an HTTP handler.
type server struct {
	client *maven.Client
	logger *log.Logger
}

func newServer(client *maven.Client, logger *log.Logger) *server {
	return &server{client: client, logger: logger}
}

// handler builds the chi router for the API.
func (s *server) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Route("/artifacts/{group}/{artifact}", func(r chi.Router) {
			r.Get("/latest", s.handleLatest)
			r.Get("/versions", s.handleVersions)
			r.Get("/{version}/dependencies", s.handleDependencies)
		})
	})
	return r
}

// listen serves the API on addr until ctx is cancelled.
func (s *server) listen(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// requestID assigns each request a correlation ID, echoed in the
// X-Request-Id response header and attached to access logs.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *server) handleLatest(w http.ResponseWriter, r *http.Request) {
	coord, ok := s.pathCoordinate(w, r)
	if !ok {
		return
	}
	info, err := s.client.LatestVersion(r.Context(), coord, queryBool(r, "prereleases"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, latestResult{Coordinate: coord.String(), VersionInfo: info})
}

func (s *server) handleVersions(w http.ResponseWriter, r *http.Request) {
	coord, ok := s.pathCoordinate(w, r)
	if !ok {
		return
	}
	infos, err := s.client.Versions(r.Context(), coord, queryInt(r, "limit"), queryBool(r, "prereleases"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, versionsResult{
		Coordinate: coord.String(),
		Count:      len(infos),
		Versions:   infos,
	})
}

func (s *server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	coord, ok := s.pathCoordinate(w, r)
	if !ok {
		return
	}
	version := chi.URLParam(r, "version")

	var scopes []string
	if vs := r.URL.Query()["scope"]; len(vs) > 0 {
		scopes = vs
	}

	deps, err := s.client.Dependencies(r.Context(), coord, version, scopes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, depsResult{
		Coordinate:   coord.String(),
		Version:      version,
		Count:        len(deps),
		Dependencies: deps,
	})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	artifacts, err := s.client.Search(r.Context(), query, queryInt(r, "limit"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, searchResult{
		Query:   query,
		Count:   len(artifacts),
		Results: artifacts,
	})
}

func (s *server) pathCoordinate(w http.ResponseWriter, r *http.Request) (maven.Coordinate, bool) {
	coord := maven.Coordinate{
		GroupID:    chi.URLParam(r, "group"),
		ArtifactID: chi.URLParam(r, "artifact"),
	}
	if err := coord.Validate(); err != nil {
		s.writeError(w, err)
		return maven.Coordinate{}, false
	}
	return coord, true
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = string(apperrors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(apperrors.ErrCodeInternal)
	}
	body.Error.Message = apperrors.UserMessage(err)
	s.writeJSON(w, httpStatus(err), body)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := printJSON(w, v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

// httpStatus maps error codes onto HTTP statuses. Upstream transport and
// parse failures surface as gateway errors since mvnq proxies Maven
// Central.
func httpStatus(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidCoordinate, apperrors.ErrCodeInvalidVersion:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRateLimited:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeSizeLimit, apperrors.ErrCodeMalformedXML:
		return http.StatusBadGateway
	case apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// queryBool parses a boolean query parameter, defaulting to false.
func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// queryInt parses an integer query parameter, defaulting to zero.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
