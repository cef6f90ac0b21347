package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for lead-table requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Pipeline, env.Store),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP routes. The store may be nil, in which case runs
// are not recorded.
func newRouter(p *pipeline.Pipeline, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/lead-table", handleLeadTable(p, st))

	return r
}

// leadTableRequest is the wire form of a search request. The list ID is
// accepted as either a JSON string or a number.
type leadTableRequest struct {
	Prompt       string          `json:"prompt"`
	Size         int             `json:"size"`
	ListID       json.RawMessage `json:"listId"`
	UserLocation *model.GeoPoint `json:"userLocation"`
}

func handleLeadTable(p *pipeline.Pipeline, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var wire leadTableRequest
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		listID, err := coerceListID(wire.ListID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "listId must be a string or number")
			return
		}

		req := model.SearchRequest{
			Prompt:         wire.Prompt,
			Size:           wire.Size,
			ExistingListID: listID,
			UserLocation:   wire.UserLocation,
		}

		run := recordRunStart(r.Context(), st, req)

		result, err := p.Run(r.Context(), req)
		if err != nil {
			recordRunFinish(r.Context(), st, run, outcomeFromError(err))
			writeError(w, statusForError(err), err.Error())
			return
		}

		recordRunFinish(r.Context(), st, run, outcomeFromResult(result))

		status := http.StatusOK
		if result.Building {
			status = http.StatusAccepted
		}
		writeJSON(w, status, result)
	}
}

// coerceListID accepts a JSON string, number, or null.
func coerceListID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var val any
	if err := dec.Decode(&val); err != nil {
		return "", err
	}

	switch v := val.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported listId type %T", val)
	}
}

// statusForError maps pipeline error kinds to HTTP status codes. Upstream
// provider failures surface as 502 so callers can distinguish them from
// request problems.
func statusForError(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.KindBadRequest:
		return http.StatusBadRequest
	case pipeline.KindConfig, pipeline.KindJobFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// recordRunStart logs the run start. Recording is best-effort; a store
// failure never blocks the search itself.
func recordRunStart(ctx context.Context, st store.Store, req model.SearchRequest) *model.Run {
	if st == nil {
		return nil
	}
	run, err := st.CreateRun(ctx, req)
	if err != nil {
		zap.L().Warn("failed to record run start", zap.Error(err))
		return nil
	}
	return run
}

func recordRunFinish(ctx context.Context, st store.Store, run *model.Run, outcome model.RunOutcome) {
	if st == nil || run == nil {
		return
	}
	if err := st.FinishRun(ctx, run.ID, outcome); err != nil {
		zap.L().Warn("failed to record run outcome",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}

func outcomeFromResult(result *model.SearchResult) model.RunOutcome {
	outcome := model.RunOutcome{
		Provider: result.Provider,
		Status:   model.RunStatusComplete,
		RowCount: len(result.Table.Rows),
	}
	if result.Building {
		outcome.Status = model.RunStatusBuilding
		outcome.RowCount = 0
	}
	if result.JobMeta != nil {
		outcome.ListID = result.JobMeta.ListID
	}
	return outcome
}

func outcomeFromError(err error) model.RunOutcome {
	return model.RunOutcome{
		Status: model.RunStatusFailed,
		Error:  err.Error(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
