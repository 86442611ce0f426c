// Package api implements the small TCP management protocol of the daemon:
// null-terminated "<path>[ <payload>]" requests answered with a single JSON
// line, plus long-lived stream routes for the event feed.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"

	"github.com/seyoka/wiimoted/internal/server/api/auth"
)

// Server serves the management API for a running daemon.
type Server struct {
	addr    string
	ln      net.Listener
	logger  *slog.Logger
	router  *Router
	config  ServerConfig
	authKey []byte // derived password key; nil when auth is disabled
}

// New creates a Server. When config.Auth is set, config.Password must be
// non-empty.
func New(config ServerConfig, logger *slog.Logger) (*Server, error) {
	s := &Server{
		addr:   config.Addr,
		logger: logger,
		config: config,
		router: NewRouter(),
	}
	if config.Auth {
		key, err := auth.DeriveKey(config.Password)
		if err != nil {
			return nil, fmt.Errorf("derive api key: %w", err)
		}
		s.authKey = key
	}
	return s, nil
}

// Router returns the router so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

// Addr returns the bound listen address once Start has succeeded.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start listens on the configured address and serves incoming commands.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("API listening", "addr", ln.Addr().String())
	go s.serve()
	return nil
}

// Close stops the API server.
func (s *Server) Close() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Server) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("API server stopped")
				return
			}
			s.logger.Info("API accept error", "error", err)
			return
		}
		go s.handleConn(c)
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	apiErr := WrapError(err)
	problemJSON, _ := json.Marshal(apiErr)
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func (s *Server) writeOK(w io.Writer, rest string) {
	if rest == "" {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s\n", rest)
	}
}

var wsRegex = regexp.MustCompile(`\s`)

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	connLogger := s.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)

	if s.authKey != nil {
		ok, err := auth.IsHandshake(r)
		if err != nil || !ok {
			connLogger.Error("api connection without auth handshake")
			s.writeError(conn, ErrUnauthorized("authentication required"))
			return
		}
		sessionKey, err := auth.ServerHandshake(r, conn, s.authKey)
		if err != nil {
			connLogger.Error("api auth handshake failed", "error", err)
			return
		}
		wrapped, err := auth.WrapServerConn(conn, sessionKey)
		if err != nil {
			connLogger.Error("api auth conn setup failed", "error", err)
			return
		}
		conn = wrapped
		r = bufio.NewReader(conn)
	}

	// Read until null terminator; payloads may contain newlines.
	reqData, err := r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("api incomplete request (no null terminator)")
		} else {
			connLogger.Error("read api data", "error", err)
		}
		return
	}
	reqData = strings.TrimSuffix(reqData, "\x00")

	if reqData == "" {
		connLogger.Error("api empty command")
		s.writeError(conn, ErrBadRequest("empty request"))
		return
	}

	var path, payload string
	if loc := wsRegex.FindStringIndex(reqData); loc != nil {
		path = reqData[:loc[0]]
		payload = reqData[loc[1]:]
	} else {
		path = reqData
	}

	if path == "" {
		connLogger.Error("api empty path")
		s.writeError(conn, ErrBadRequest("empty path"))
		return
	}

	path = strings.ToLower(path)
	connLogger.Info("api cmd", "path", path)

	if h, params := s.router.Match(path); h != nil {
		req := &Request{Ctx: connCtx, Params: params, Payload: payload}
		res := &Response{}
		if err := h(req, res, connLogger); err != nil {
			connLogger.Error("api handler error", "path", path, "error", err)
			s.writeError(conn, err)
			return
		}
		connLogger.Debug("api handler success", "path", path)
		s.writeOK(conn, res.JSON)
		return
	}

	if sh, _ := s.router.MatchStream(path); sh != nil {
		connLogger.Info("api stream begin", "path", path)
		if err := sh(conn, connLogger); err != nil {
			connLogger.Error("api stream handler error", "path", path, "error", err)
		}
		connLogger.Info("api stream end", "path", path)
		return
	}

	connLogger.Error("api unknown path", "path", path)
	s.writeError(conn, ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
}
