// expertd is the betting expert daemon. It loads pre-aggregated team
// profiles and serves hybrid (rules + Bayesian) betting analyses over HTTP,
// with a WebSocket stream of completed analyses and Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/matchmind/betexpert/pkg/expert/analyzer"
	"github.com/matchmind/betexpert/pkg/expert/facts"
	"github.com/matchmind/betexpert/pkg/expert/metrics"
	"github.com/matchmind/betexpert/pkg/expert/profiles"
	"github.com/matchmind/betexpert/pkg/expert/streaming"
	"github.com/matchmind/betexpert/pkg/expert/value"
)

var (
	profilesPath = flag.String("profiles", "profiles.json", "Path to the team profiles JSON file")
	httpAddr     = flag.String("http", ":8080", "HTTP server address")
	rateLimit    = flag.Float64("rate", 10, "Analysis requests per second")
	rateBurst    = flag.Int("burst", 20, "Analysis request burst size")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("Starting betting expert daemon")

	store := profiles.NewStore()
	if err := store.LoadFile(*profilesPath); err != nil {
		log.Fatalf("Failed to load team profiles: %v", err)
	}
	log.Printf("Loaded %d team profiles from %s", store.Len(), *profilesPath)

	em := metrics.Default()
	hub := streaming.NewHub(em)
	go hub.Run()

	srv := &server{
		store:    store,
		analyzer: analyzer.New(em),
		assessor: value.NewAssessor(nil),
		hub:      hub,
		limiter:  rate.NewLimiter(rate.Limit(*rateLimit), *rateBurst),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/teams", srv.handleTeams)
	mux.HandleFunc("/analyze", srv.handleAnalyze)
	mux.HandleFunc("/assess", srv.handleAssess)
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.Handle("/metrics", promhttp.HandlerFor(em.Registry(), promhttp.HandlerOpts{}))

	httpServer := &http.Server{
		Addr:         *httpAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", *httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

type server struct {
	store    *profiles.Store
	analyzer *analyzer.Analyzer
	assessor *value.Assessor
	hub      *streaming.Hub
	limiter  *rate.Limiter
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"teams":  s.store.Len(),
	})
}

func (s *server) handleTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"teams": s.store.Teams()})
}

// handleAnalyze runs a hybrid analysis for ?home=X&away=Y. An optional
// ?threshold=N overrides the over/under goal line.
func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	homeName := r.URL.Query().Get("home")
	awayName := r.URL.Query().Get("away")
	if homeName == "" || awayName == "" {
		writeError(w, http.StatusBadRequest, "home and away query parameters are required")
		return
	}

	home, ok := s.store.Get(homeName)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown team %q", homeName))
		return
	}
	away, ok := s.store.Get(awayName)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown team %q", awayName))
		return
	}

	threshold := 0.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		var err error
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || threshold <= 0 {
			writeError(w, http.StatusBadRequest, "threshold must be a positive number")
			return
		}
	}

	bets := make([]facts.BetRequest, 0, len(facts.AllBetTypes))
	for _, bt := range facts.AllBetTypes {
		bet, err := facts.NewBetRequest(bt, home.Team, away.Team, 0, threshold)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		bets = append(bets, bet)
	}

	analysis, err := s.analyzer.AnalyzeBets(home, away, bets)
	if err != nil {
		s.hub.BroadcastError(err, "analyze")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.hub.BroadcastAnalysis(analysis)
	for key, warning := range analysis.Warnings {
		s.hub.BroadcastWarning(key, warning)
	}

	writeJSON(w, http.StatusOK, analysis)
}

// handleAssess runs a hybrid analysis for one market and scores the verdict
// against bookmaker odds: ?home=X&away=Y&bet=home_win&odds=2.1 with an
// optional ?bankroll=N (default 1000).
func (s *server) handleAssess(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	q := r.URL.Query()
	homeName, awayName := q.Get("home"), q.Get("away")
	if homeName == "" || awayName == "" {
		writeError(w, http.StatusBadRequest, "home and away query parameters are required")
		return
	}
	home, ok := s.store.Get(homeName)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown team %q", homeName))
		return
	}
	away, ok := s.store.Get(awayName)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown team %q", awayName))
		return
	}

	odds, err := strconv.ParseFloat(q.Get("odds"), 64)
	if err != nil || odds <= 1 {
		writeError(w, http.StatusBadRequest, "odds must be a decimal number above 1.0")
		return
	}

	bankroll := decimal.NewFromInt(1000)
	if raw := q.Get("bankroll"); raw != "" {
		bankroll, err = decimal.NewFromString(raw)
		if err != nil || !bankroll.IsPositive() {
			writeError(w, http.StatusBadRequest, "bankroll must be a positive number")
			return
		}
	}

	bet, err := facts.NewBetRequest(facts.BetType(q.Get("bet")), home.Team, away.Team, odds, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.analyzer.AnalyzeBets(home, away, []facts.BetRequest{bet})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := analysis.Hybrid[bet.BetType]
	writeJSON(w, http.StatusOK, map[string]any{
		"recommendation": rec,
		"assessment":     s.assessor.Assess(rec, odds, bankroll),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
