package surface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lazor-kit/wallet-client/pkg/rate"
)

const (
	callbackRoute    = "/auth/{install_id}"
	installIDVar     = "install_id"
	shutdownTimeout  = 5 * time.Second
	closeWindowReply = "Authentication complete. You may close this window."
)

// CallbackServer is a loopback HTTP listener standing in for a deep link
// scheme on desktop hosts. Portal redirects to /auth/<install id> are
// republished on the deep link channel.
type CallbackServer struct {
	log     *logrus.Entry
	channel *Channel
	limiter rate.Limiter

	installID string

	mu          sync.Mutex
	callbackURL string
}

func NewCallbackServer(channel *Channel, limiter rate.Limiter) *CallbackServer {
	if limiter == nil {
		limiter = &rate.NoLimiter{}
	}

	return &CallbackServer{
		log:       logrus.StandardLogger().WithField("type", "surface/callback_server"),
		channel:   channel,
		limiter:   limiter,
		installID: uuid.New().String(),
	}
}

// InstallID is the random path segment that scopes redirects to this process.
func (s *CallbackServer) InstallID() string {
	return s.installID
}

// CallbackURL is available once Start has bound a listener.
func (s *CallbackServer) CallbackURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.callbackURL
}

// Handler exposes the router, mainly for tests.
func (s *CallbackServer) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc(callbackRoute, s.handleCallback).Methods(http.MethodGet)
	return router
}

// Start binds listenAddr and serves until ctx is cancelled. It returns the
// callback URL to hand to the portal.
func (s *CallbackServer) Start(ctx context.Context, listenAddr string) (string, error) {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return "", errors.Wrap(err, "error binding callback listener")
	}

	callbackURL := fmt.Sprintf("http://%s/auth/%s", listener.Addr().String(), s.installID)

	s.mu.Lock()
	s.callbackURL = callbackURL
	s.mu.Unlock()

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Warn("callback server stopped unexpectedly")
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Debug("failure shutting down callback server")
		}
	}()

	return callbackURL, nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	log := s.log.WithField("method", "handleCallback")

	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	allowed, err := s.limiter.Allow(remoteIP)
	if err != nil {
		log.WithError(err).Warn("failure checking rate limit")
		w.WriteHeader(http.StatusInternalServerError)
		return
	} else if !allowed {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	if mux.Vars(r)[installIDVar] != s.installID {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	redirect := s.redirectURL(r)
	if !s.channel.Publish(redirect) {
		log.Debug("no operation awaiting a redirect")
		w.WriteHeader(http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(closeWindowReply))
}

// redirectURL rebuilds the absolute redirect so it can be matched against
// the callback URL handed to the portal.
func (s *CallbackServer) redirectURL(r *http.Request) string {
	base := s.CallbackURL()
	if base == "" {
		base = fmt.Sprintf("http://%s/auth/%s", r.Host, s.installID)
	}

	if r.URL.RawQuery == "" {
		return base
	}
	return base + "?" + r.URL.RawQuery
}
