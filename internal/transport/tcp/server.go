// Package tcp is a line-oriented TCP control listener for the ASCII command
// protocol (§6.2), adapted from src/appserver.go's session table: each
// accepted connection gets a session entry (for a "who" introspection
// command) instead of an AX.25 callsign/channel pair.
package tcp

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kb9vor/rdsencoder/internal/control"
)

// session records one connected control client, mirroring session_s's
// purpose of giving a "who" command something to list.
type session struct {
	remoteAddr string
	loginTime  time.Time
}

// Server accepts control connections and dispatches each line to a Parser.
type Server struct {
	parser *control.Parser
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// New builds a Server that applies accepted commands to parser.
func New(parser *control.Parser, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		parser:   parser,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// ListenAndServe listens on addr and serves connections until Accept
// returns an error. The listener is created and closed inside this call;
// Server has no method to stop it early.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", addr, err)
	}
	defer ln.Close()

	s.logger.Info("control server listening", "addr", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.addSession(remote)
	defer s.removeSession(remote)

	s.logger.Info("control client connected", "remote", remote)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "WHO" {
			s.writeWho(conn)
			continue
		}
		if err := s.parser.Process(line); err != nil {
			s.logger.Warn("rejected control command", "remote", remote, "line", line, "error", err)
		}
	}

	s.logger.Info("control client disconnected", "remote", remote)
}

func (s *Server) addSession(remote string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[remote] = &session{remoteAddr: remote, loginTime: time.Now()}
}

func (s *Server) removeSession(remote string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, remote)
}

func (s *Server) writeWho(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		fmt.Fprintf(conn, "%s connected %s\n", sess.remoteAddr, sess.loginTime.Format(time.RFC3339))
	}
}
