package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"

	"github.com/tomz197/starblaster/internal/config"
	"github.com/tomz197/starblaster/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultIdleTimeout = "5m"
)

// host runs one independent game per SSH session.
type host struct {
	cfg         config.Config
	logger      *log.Logger
	idleTimeout time.Duration

	// shutdown is cancelled when the process is asked to stop; every
	// running session ends with it.
	shutdown context.Context
	sessions sync.WaitGroup
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "starblaster-ssh",
	})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("invalid config", "err", err)
	}
	idleTimeout, err := time.ParseDuration(config.GetEnv("SSH_IDLE_TIMEOUT", defaultIdleTimeout))
	if err != nil {
		logger.Fatal("invalid SSH_IDLE_TIMEOUT", "err", err)
	}

	hostAddr := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", hostAddr, "port", port, "hostKeyPath", hostKeyPath, "idleTimeout", idleTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := &host{cfg: cfg, logger: logger, idleTimeout: idleTimeout, shutdown: ctx}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(hostAddr, port)),
		wish.WithMiddleware(
			h.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(hostAddr, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down, ending running games")
	cancel()
	h.sessions.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs a game for the session on its PTY.
func (h *host) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.sessions.Add(1)
		defer h.sessions.Done()

		logger := h.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		stop := context.AfterFunc(h.shutdown, cancel)
		defer stop()

		err := loop.Run(ctx, bufio.NewReader(sess), sess, loop.Options{
			Config:       h.cfg,
			TermSizeFunc: sizeTracker.getSize,
			Renderer:     newRenderer(sess, pty.Term),
			Logger:       logger,
			IdleTimeout:  h.idleTimeout,
		})
		switch {
		case errors.Is(err, loop.ErrIdle):
			fmt.Fprintln(sess, "Disconnected after being idle.")
		case errors.Is(err, context.Canceled):
			if h.shutdown.Err() != nil {
				fmt.Fprintln(sess, "Server is shutting down. Thanks for playing!")
			}
		case err != nil:
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// newRenderer styles overlays for the client's terminal rather than the
// server's.
func newRenderer(sess ssh.Session, term string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(sess, termenv.WithUnsafe(), termenv.WithColorCache(true))
	switch {
	case strings.Contains(term, "truecolor") || strings.Contains(term, "24bit"):
		r.SetColorProfile(termenv.TrueColor)
	case strings.Contains(term, "256color"):
		r.SetColorProfile(termenv.ANSI256)
	default:
		r.SetColorProfile(termenv.ANSI)
	}
	return r
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}
