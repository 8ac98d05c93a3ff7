package main

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/tomz197/starblaster/internal/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "starblaster-web",
	})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "2222")

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newRouter(renderPage(sshHost, sshPort), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting web server", "addr", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// renderPage fills the connect command into the landing page.
func renderPage(sshHost, sshPort string) string {
	command := "ssh " + sshHost
	if sshPort != "22" {
		command = "ssh -p " + sshPort + " " + sshHost
	}
	return strings.NewReplacer(
		"{{.SSHHost}}", sshHost,
		"{{.SSHCommand}}", command,
	).Replace(htmlPage)
}

func newRouter(page string, logger *log.Logger) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Debug("request", "method", req.Method, "path", req.URL.Path, "remote", req.RemoteAddr, "took", time.Since(start))
		})
	})
	return r
}
