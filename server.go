package main

import (
	"errors"
	"log"
	"net"
	"sync"
	"time"
)

var ErrServerClosed = errors.New("server closed")

// Server accepts connections and hands each one to its own Worker.
type Server struct {
	cfg    *Config
	router *Router
	slots  chan struct{} // nil when connections are not capped

	mu     sync.Mutex
	ln     net.Listener
	closed bool
	done   chan struct{}
}

func NewServer(cfg *Config) *Server {
	s := &Server{
		cfg:    cfg,
		router: NewServerRouter(cfg),
		done:   make(chan struct{}),
	}
	if cfg.MaxConns > 0 {
		s.slots = make(chan struct{}, cfg.MaxConns)
	}
	return s
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the accept loop until Close is called. Accept errors are
// logged and do not stop the loop.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.mu.Unlock()
	defer ln.Close()

	log.Printf("I listening on %s, serving %q", ln.Addr(), s.cfg.Directory)
	var delay time.Duration // how long to sleep on accept failure
	for {
		if !s.acquire() {
			return ErrServerClosed
		}
		conn, err := ln.Accept()
		if err != nil {
			s.release()
			if s.isClosed() {
				return ErrServerClosed
			}
			delay = nextAcceptDelay(delay)
			log.Printf("E accept error: %v; retrying in %v", err, delay)
			select {
			case <-time.After(delay):
			case <-s.done:
				return ErrServerClosed
			}
			continue
		}
		delay = 0
		go s.handle(conn)
	}
}

// Same schedule as net/http: 5ms doubling up to 1s.
func nextAcceptDelay(delay time.Duration) time.Duration {
	if delay == 0 {
		return 5 * time.Millisecond
	}
	if delay *= 2; delay > time.Second {
		delay = time.Second
	}
	return delay
}

func (s *Server) handle(conn net.Conn) {
	defer s.release()
	worker := NewWorker(s.cfg, s.router)
	worker.Start(conn) // worker takes the ownership of |conn|
}

// acquire waits for a free connection slot. It reports false once the
// server is closed.
func (s *Server) acquire() bool {
	if s.slots == nil {
		return true
	}
	select {
	case s.slots <- struct{}{}:
		return true
	case <-s.done:
		return false
	}
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops accepting new connections. Workers already running finish
// their request.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}
