package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"physbridge/internal/physics"
)

// writeWait bounds a single write; clients slower than this are dropped.
const writeWait = 100 * time.Millisecond

// TCPServer streams batches as JSON lines to every connected client.
type TCPServer struct {
	ln  net.Listener
	log *slog.Logger

	mu      sync.Mutex
	clients map[net.Conn]struct{}
	closed  bool
	done    chan struct{}
}

// ListenTCP binds addr. Call Serve to start accepting clients.
func ListenTCP(addr string, logger *slog.Logger) (*TCPServer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("telemetry listen %s: %w", addr, err)
	}
	return &TCPServer{
		ln:      ln,
		log:     logger.With("component", "telemetry", "transport", "tcp"),
		clients: make(map[net.Conn]struct{}),
		done:    make(chan struct{}),
	}, nil
}

func (s *TCPServer) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts clients until ctx is done or the server is closed.
func (s *TCPServer) Serve(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("telemetry accept: %w", err)
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
		s.log.Info("telemetry client connected", "remote", conn.RemoteAddr())
	}
}

// Len returns the number of connected clients.
func (s *TCPServer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *TCPServer) Publish(batch physics.ResponseBatch) error {
	line, err := encodeLine(batch)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if _, err := conn.Write(line); err != nil {
			s.log.Info("dropping telemetry client", "remote", conn.RemoteAddr(), "err", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
	return nil
}

func (s *TCPServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	for conn := range s.clients {
		conn.Close()
	}
	clear(s.clients)
	return s.ln.Close()
}
