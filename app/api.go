package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/sessionplan/api/history"
)

// serveAPI exposes the run history until ctx is done.
func (s *Service) serveAPI(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(history.Path, history.NewHandler(s.store, s.cfg.API.Token))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving run history on %s%s", addr, history.Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
