package cmd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/chordmelody/arrange"
	"github.com/jsphweid/chordmelody/chord"
	"github.com/jsphweid/chordmelody/config"
	"github.com/jsphweid/chordmelody/db"
	"github.com/jsphweid/chordmelody/logger"
	"github.com/jsphweid/chordmelody/model"
	"github.com/jsphweid/chordmelody/pitch"
	"github.com/jsphweid/chordmelody/score"
	"github.com/jsphweid/chordmelody/voicing"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const sentryFlushTimeout = 2 * time.Second

var store db.Store

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the arranger over HTTP",
	Long:  `Serves the arranger over HTTP and keeps every arrangement it makes.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// Setup points the handlers at a configuration and a store without going
// through the command line.
func Setup(c *config.Config, s db.Store) {
	cfg = c
	store = s
}

// OpenStore opens the configured arrangement store.
func OpenStore(c *config.Config) (db.Store, error) {
	if c.Store.Backend == "dynamodb" {
		return db.NewDynamo(c.Store.Endpoint, c.Store.Region, c.Store.Table)
	}
	return db.NewMemory(), nil
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/arrangements", HandleCreateArrangement).Methods("POST")
	router.HandleFunc("/arrangements", HandleListArrangements).Methods("GET")
	router.HandleFunc("/arrangements/{id}", HandleGetArrangement).Methods("GET")
	router.HandleFunc("/voicings", HandleVoice).Methods("POST")
	router.Use(logRequests)
	return cors.Default().Handler(router)
}

func serve() error {
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Debug:       !cfg.IsProduction(),
		})
		if err != nil {
			logger.Warn("sentry not initialized", logger.Fields{"error": err.Error()})
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	s, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	Setup(cfg, s)

	handler := NewRouter()
	if cfg.SentryDSN != "" {
		handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(handler)
	}
	addr := ":" + cfg.Port
	logger.Info("listening", logger.Fields{"addr": addr, "store": cfg.Store.Backend})
	return http.ListenAndServe(addr, handler)
}

func HandleCreateArrangement(w http.ResponseWriter, r *http.Request) {
	var input model.ArrangeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.Wrap(err, "could not read request body"))
		return
	}
	opts, err := requestOptions(input.Options)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s, err := score.FromLeadSheet(input.Score)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	arr, err := arrange.Arrange(s, opts)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	data, err := json.Marshal(arr)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	rec := db.Record{
		Id:          uuid.NewString(),
		Title:       arr.Title,
		Created:     time.Now().UTC(),
		Arrangement: data,
	}
	if err := store.Put(r.Context(), rec); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	logger.Info("arrangement stored", logger.Fields{"id": rec.Id, "chords": len(arr.Entries)})
	writeJSON(w, http.StatusCreated, model.ArrangeResponse{Id: rec.Id, Arrangement: data})
}

func HandleGetArrangement(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := store.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, model.ArrangeResponse{Id: rec.Id, Arrangement: rec.Arrangement})
}

// HandleListArrangements looks up the titles of the arrangements named by
// repeated id query parameters.
func HandleListArrangements(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query()["id"]
	if len(ids) > db.MaxBatch {
		writeError(w, r, http.StatusBadRequest, errors.Errorf("at most %d ids per lookup", db.MaxBatch))
		return
	}
	res, err := store.Summaries(r.Context(), ids)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleVoice(w http.ResponseWriter, r *http.Request) {
	var input model.VoiceRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.Wrap(err, "could not read request body"))
		return
	}
	opts, err := requestOptions(input.Options)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	sym, err := chord.Parse(input.Symbol)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	var melody *pitch.Pitch
	if input.Melody != "" {
		p, err := pitch.Parse(input.Melody)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		melody = &p
	}

	entry, _, err := arrange.Step(sym, melody, opts, nil)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// requestOptions layers a request's overrides onto the configured options.
func requestOptions(o *model.Options) (arrange.Options, error) {
	opts := cfg.Arrangement
	if o == nil {
		return opts, nil
	}
	if o.MinFret != nil {
		opts.Window.MinFret = *o.MinFret
	}
	if o.MaxFret != nil {
		opts.Window.MaxFret = *o.MaxFret
	}
	var err error
	if o.Drop != "" {
		if opts.Drop, err = voicing.ParseDrop(o.Drop); err != nil {
			return opts, err
		}
	}
	if o.Major != "" {
		if opts.Styles.Major, err = chord.ParseTriadStyle(o.Major); err != nil {
			return opts, err
		}
	}
	if o.Minor != "" {
		if opts.Styles.Minor, err = chord.ParseTriadStyle(o.Minor); err != nil {
			return opts, err
		}
	}
	return opts, opts.Validate()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, arrange.ErrUnsupportedScoreShape), errors.Is(err, chord.ErrUnmappedMelody):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("could not write response", logger.Fields{"error": err.Error()})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", err, logger.WithRequest(r))
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.LogRequest(r, time.Since(start), rec.status)
	})
}
