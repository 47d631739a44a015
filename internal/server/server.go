// Package server accepts Modbus TCP connections and feeds them through the
// protocol engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fluffware/modbusaudio/internal/modbus"
	"github.com/fluffware/modbusaudio/pkg/log"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = "0.0.0.0:5020"

const readBufferSize = 260

// Config holds listener settings.
type Config struct {
	// Addr is the TCP address to bind.
	Addr string

	// ReadTimeout bounds how long a partial frame may wait for more bytes
	// before it is discarded. Zero disables the timeout.
	ReadTimeout time.Duration

	// MaxConnections bounds the number of concurrently served connections.
	// Further clients wait in the listen backlog. Zero means unbounded.
	MaxConnections int
}

// Server is a Modbus TCP listener sharing one Handler across connections.
type Server struct {
	cfg     Config
	handler *modbus.Handler
	logger  log.Logger
	slots   chan struct{}

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	wg       sync.WaitGroup
}

// New returns a Server that dispatches requests to handler.
func New(cfg Config, handler *modbus.Handler, logger log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	s := &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		conns:   make(map[net.Conn]struct{}),
	}
	if cfg.MaxConnections > 0 {
		s.slots = make(chan struct{}, cfg.MaxConnections)
	}
	return s
}

// Listen binds the listen address. It is separate from Serve so bind errors
// surface before the server is reported as running.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.logger.Info("listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then closes the
// listener and every open connection and waits for their goroutines.
// Listen is called first if it has not been.
func (s *Server) Serve(ctx context.Context) error {
	if s.Addr() == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, s.closeAll)
	defer stop()

	back := newBackoff(acceptBackoffInitial, acceptBackoffMax)
	for {
		if !s.acquire(ctx) {
			break
		}
		conn, err := ln.Accept()
		if err != nil {
			s.release()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Warn("accept failed", log.Err(err))
			back.Sleep(ctx)
			continue
		}
		back.Reset()

		if !s.track(conn) {
			conn.Close()
			s.release()
			break
		}
		go func() {
			defer s.wg.Done()
			defer s.release()
			defer s.untrack(conn)
			s.ServeConn(ctx, conn)
		}()
	}

	s.closeAll()
	s.wg.Wait()
	return nil
}

// ServeConn runs the read loop for one connection until the peer closes it,
// a read fails, or ctx is cancelled. The connection is closed on return.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	logger := log.With(s.logger,
		log.String("conn", uuid.NewString()),
		log.String("remote", conn.RemoteAddr().String()))
	logger.Info("client connected")

	engine := modbus.NewEngine()
	buf := make([]byte, readBufferSize)
	for {
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		n, err := conn.Read(buf)
		if n > 0 {
			engine.Feed(buf[:n])
			if werr := s.process(conn, engine, logger); werr != nil {
				logger.Warn("write failed", log.Err(werr))
				return
			}
		}
		if err == nil {
			continue
		}
		if isTimeout(err) && ctx.Err() == nil {
			if engine.Buffered() > 0 {
				logger.Debug("read timeout, discarding partial frame", log.Int("bytes", engine.Buffered()))
			}
			engine.Reset()
			continue
		}
		switch {
		case errors.Is(err, io.EOF):
			logger.Info("client disconnected")
		case ctx.Err() != nil:
			logger.Debug("connection closed for shutdown")
		default:
			logger.Warn("read failed", log.Err(err))
		}
		return
	}
}

// process answers every complete frame currently buffered.
func (s *Server) process(conn net.Conn, engine *modbus.Engine, logger log.Logger) error {
	for {
		frame, ok, err := engine.Next()
		if err != nil {
			logger.Debug("discarding non-modbus data", log.Err(err))
			return nil
		}
		if !ok {
			return nil
		}
		resp, ok := s.handler.Handle(frame)
		if !ok {
			logger.Debug("discarding frame without function code")
			continue
		}
		if _, err := conn.Write(resp); err != nil {
			return err
		}
	}
}

func (s *Server) acquire(ctx context.Context) bool {
	if s.slots == nil {
		return ctx.Err() == nil
	}
	select {
	case s.slots <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Server) release() {
	if s.slots != nil {
		<-s.slots
	}
}

// track registers conn for shutdown. It fails once the server is closing.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// closeAll closes the listener and all tracked connections. Later track
// calls fail.
func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
