package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joaoccaldas/coinsnap-collector/internal/collection"
	"github.com/joaoccaldas/coinsnap-collector/internal/model"
	"github.com/joaoccaldas/coinsnap-collector/internal/normalize"
	"github.com/joaoccaldas/coinsnap-collector/internal/view"
	"github.com/joaoccaldas/coinsnap-collector/pkg/vision"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the collection over a local HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		col, closeStore, err := initCollection(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		// Identification stays optional: without an API key the server
		// still lists, saves, and deletes.
		var identifier vision.Identifier
		if cfg.Anthropic.Key != "" {
			identifier, err = initIdentifier()
			if err != nil {
				return err
			}
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(col, identifier),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("server listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newRouter(col *collection.Collection, identifier vision.Identifier) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/coins", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		derived := view.Derive(col.All(), view.Query{
			Text:  q.Get("query"),
			By:    model.ParseSortKey(q.Get("sort")),
			Order: model.ParseSortOrder(q.Get("order")),
		})
		writeJSON(w, http.StatusOK, derived)
	})

	r.Post("/coins", func(w http.ResponseWriter, req *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		coin := normalize.Normalize(raw)
		if strings.TrimSpace(coin.Name) == "" {
			writeError(w, http.StatusBadRequest, "a name is required")
			return
		}
		if !col.Append(req.Context(), coin) {
			writeError(w, http.StatusConflict, "a coin with this id already exists")
			return
		}
		writeJSON(w, http.StatusCreated, coin)
	})

	r.Get("/coins/{id}", func(w http.ResponseWriter, req *http.Request) {
		coin, ok := col.Get(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "coin not found")
			return
		}
		writeJSON(w, http.StatusOK, coin)
	})

	r.Delete("/coins/{id}", func(w http.ResponseWriter, req *http.Request) {
		if !col.Remove(req.Context(), chi.URLParam(req, "id")) {
			writeError(w, http.StatusNotFound, "coin not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, view.Aggregate(col.All()))
	})

	r.Post("/coins/identify", func(w http.ResponseWriter, req *http.Request) {
		if identifier == nil {
			writeError(w, http.StatusServiceUnavailable, "identification is not configured")
			return
		}
		var body struct {
			Front     string `json:"front"`
			Back      string `json:"back"`
			MediaType string `json:"mediaType"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		front, err := base64.StdEncoding.DecodeString(body.Front)
		if err != nil || len(front) == 0 {
			writeError(w, http.StatusBadRequest, "front must be base64 image data")
			return
		}
		back, err := base64.StdEncoding.DecodeString(body.Back)
		if err != nil {
			writeError(w, http.StatusBadRequest, "back must be base64 image data")
			return
		}

		ident, err := identifier.Identify(req.Context(),
			vision.Image{MediaType: body.MediaType, Data: front},
			vision.Image{MediaType: body.MediaType, Data: back},
		)
		if err != nil {
			zap.L().Warn("identify request failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "identification failed")
			return
		}
		// The result is a pending identification; nothing is persisted
		// until the caller POSTs the record back to /coins.
		writeJSON(w, http.StatusOK, ident)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		zap.L().Debug("http request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
