// Package metrics expone las métricas Prometheus del robot.
//
//   - robot_ticks_total{branch,result}     ticks ejecutados (result: ok|empty|error)
//   - robot_gateway_errors_total{branch}   fallos del gateway contenidos por tick
//   - robot_listed_supply                  último total agregado del feed
//   - robot_deficit                        1 si el último supply check dio déficit
//   - robot_floor_price                    precio suelo activo en el último buy check
//   - robot_buy_candidates_total           listings clasificados como elegibles
//   - robot_tick_duration_seconds{branch}  duración de cada tick
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Ticks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robot_ticks_total",
			Help: "Scheduler ticks by branch and result",
		},
		[]string{"branch", "result"},
	)

	GatewayErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "robot_gateway_errors_total",
			Help: "Listing gateway failures contained by the scheduler",
		},
		[]string{"branch"},
	)

	ListedSupply = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "robot_listed_supply",
			Help: "Total listed amount from the last supply check",
		},
	)

	Deficit = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "robot_deficit",
			Help: "1 when the last supply check was below the sum threshold",
		},
	)

	FloorPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "robot_floor_price",
			Help: "Floor price used by the last buy check",
		},
	)

	BuyCandidates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "robot_buy_candidates_total",
			Help: "Listings classified as buy-eligible",
		},
	)

	TickDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "robot_tick_duration_seconds",
			Help:    "Tick wall time by branch",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"branch"},
	)
)

func init() {
	prometheus.MustRegister(Ticks, GatewayErrors)
	prometheus.MustRegister(ListedSupply, Deficit, FloorPrice)
	prometheus.MustRegister(BuyCandidates, TickDuration)
}

// TickSource da acceso de solo lectura al historial de ticks.
type TickSource interface {
	RecentTicks(ctx context.Context, branch domain.Branch, limit int) ([]domain.TickRecord, error)
}

const (
	defaultTickLimit = 20
	maxTickLimit     = 500
)

// Handler devuelve el mux con /metrics y /healthz. Si src no es nil
// también expone /ticks?branch=supply|buy&limit=N en JSON.
func Handler(src TickSource) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	if src != nil {
		mux.HandleFunc("/ticks", ticksHandler(src))
	}
	return mux
}

func ticksHandler(src TickSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		branch := domain.Branch(q.Get("branch"))
		if branch == "" {
			branch = domain.BranchBuy
		}
		if branch != domain.BranchSupply && branch != domain.BranchBuy {
			http.Error(w, "branch must be supply or buy", http.StatusBadRequest)
			return
		}

		limit := defaultTickLimit
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxTickLimit)
		}

		ticks, err := src.RecentTicks(r.Context(), branch, limit)
		if err != nil {
			slog.Error("metrics: recent ticks", "branch", branch, "error", err)
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		if ticks == nil {
			ticks = []domain.TickRecord{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ticks)
	}
}

// Serve arranca el servidor de métricas en addr y lo cierra al cancelar ctx.
// Bloquea hasta que el servidor termina.
func Serve(ctx context.Context, addr string, src TickSource) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(src),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
