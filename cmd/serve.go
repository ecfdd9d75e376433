package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/civic-cli/internal/reconcile"
	"github.com/sells-group/civic-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reconciliation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := newEngine(st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, engine),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func newRouter(st store.Store, engine *reconcile.Engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/reconcile/link", func(w http.ResponseWriter, req *http.Request) {
		result, err := engine.LinkOrdinancesToMeetings(req.Context())
		respond(w, result, err)
	})

	r.Post("/reconcile/infer", func(w http.ResponseWriter, req *http.Request) {
		result, err := engine.InferReadingsFromDiscussed(req.Context(), req.URL.Query().Get("ordinance"))
		respond(w, result, err)
	})

	r.Post("/reconcile/resolutions", func(w http.ResponseWriter, req *http.Request) {
		count, err := engine.ExtractResolutionsFromAgendaItems(req.Context(), req.URL.Query().Get("meeting"))
		respond(w, map[string]int{"upserted": count}, err)
	})

	r.Post("/reconcile/votes/{meetingRef}", func(w http.ResponseWriter, req *http.Request) {
		result, err := engine.ReconcileVoteOutcomes(req.Context(), chi.URLParam(req, "meetingRef"))
		respond(w, result, err)
	})

	r.Post("/reconcile/dates", func(w http.ResponseWriter, req *http.Request) {
		updated, err := engine.UpdateOrdinanceDatesFromMeetings(req.Context())
		respond(w, map[string]int{"updated": updated}, err)
	})

	r.Post("/reconcile/run", func(w http.ResponseWriter, req *http.Request) {
		result, err := engine.Run(req.Context())
		respond(w, result, err)
	})

	r.Get("/ordinances", func(w http.ResponseWriter, req *http.Request) {
		ordinances, err := st.ListOrdinances(req.Context())
		respond(w, ordinances, err)
	})

	r.Get("/resolutions", func(w http.ResponseWriter, req *http.Request) {
		resolutions, err := st.ListResolutions(req.Context())
		respond(w, resolutions, err)
	})

	return r
}

func respond(w http.ResponseWriter, payload any, err error) {
	if err != nil {
		zap.L().Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
