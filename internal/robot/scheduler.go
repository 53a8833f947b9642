package robot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/alejandrodnm/frcbot/internal/metrics"
	"github.com/alejandrodnm/frcbot/internal/ports"
	"github.com/google/uuid"
)

// Config contiene la configuración del scheduler.
type Config struct {
	Token          string
	PageSize       int
	SupplyInterval time.Duration // timer corto: supply check
	BuyInterval    time.Duration // timer largo: buy check
	CallTimeout    time.Duration // timeout por llamada al gateway (0 = sin timeout)
	SumThreshold   uint64
	FloorPrices    []uint64
}

// DefaultConfig devuelve la configuración de producción.
func DefaultConfig() Config {
	return Config{
		PageSize:       50,
		SupplyInterval: 5 * time.Second,
		BuyInterval:    10 * time.Second,
		CallTimeout:    15 * time.Second,
		FloorPrices:    domain.DefaultFloorPrices,
	}
}

// State es el estado mutable del scheduler. Cada tick recibe un State y
// devuelve el siguiente; nada más lo modifica.
type State struct {
	PriceIndex   int // índice en el calendario de precios suelo
	AccountIndex int // rotación de cuentas entregadas a las estrategias
}

// Scheduler es el loop cooperativo con dos timers independientes.
// Las dos ramas nunca se solapan: corren en la misma goroutine.
type Scheduler struct {
	cfg      Config
	schedule domain.FloorSchedule
	agg      *Aggregator
	engine   *DecisionEngine
	pools    domain.Pools
	buy      ports.BuyAction
	list     ports.ListAction
	ticks    ports.TickStore
}

// New crea un Scheduler con todas las dependencias inyectadas.
// ticks puede ser nil (sin auditoría).
func New(
	cfg Config,
	gw ports.ListingGateway,
	pools domain.Pools,
	buy ports.BuyAction,
	list ports.ListAction,
	ticks ports.TickStore,
) (*Scheduler, error) {
	schedule, err := domain.NewFloorSchedule(cfg.FloorPrices)
	if err != nil {
		return nil, fmt.Errorf("robot.New: %w", err)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("robot.New: %w: page size must be positive", domain.ErrConfig)
	}
	if cfg.SupplyInterval <= 0 || cfg.BuyInterval <= 0 {
		return nil, fmt.Errorf("robot.New: %w: intervals must be positive", domain.ErrConfig)
	}

	gw = timeoutGateway{next: gw, timeout: cfg.CallTimeout}
	return &Scheduler{
		cfg:      cfg,
		schedule: schedule,
		agg:      NewAggregator(gw, cfg.SumThreshold),
		engine:   NewDecisionEngine(gw),
		pools:    pools,
		buy:      buy,
		list:     list,
		ticks:    ticks,
	}, nil
}

// InitialState devuelve el estado de arranque con el índice de precio dado.
func (s *Scheduler) InitialState(priceIndex int) State {
	return State{PriceIndex: s.schedule.Normalize(priceIndex)}
}

// Run ejecuta el loop hasta que el contexto se cancele o haya un error
// irrecuperable. Los fallos del gateway se loguean y el loop sigue.
// Al arrancar se corre un supply check y un buy check sin esperar al
// primer disparo de cada timer.
// Si un tick se alarga, los disparos perdidos del mismo timer se descartan.
func (s *Scheduler) Run(ctx context.Context, st State) (State, error) {
	slog.Info("scheduler starting",
		"token", s.cfg.Token,
		"supply_interval", s.cfg.SupplyInterval,
		"buy_interval", s.cfg.BuyInterval,
		"page_size", s.cfg.PageSize,
		"threshold", s.cfg.SumThreshold,
		"floor_price", s.schedule.At(st.PriceIndex),
	)

	var err error
	for _, branch := range []domain.Branch{domain.BranchSupply, domain.BranchBuy} {
		if ctx.Err() != nil {
			slog.Info("scheduler stopped")
			return st, nil
		}
		if st, err = s.step(ctx, branch, st); err != nil {
			return st, err
		}
	}

	supply := time.NewTicker(s.cfg.SupplyInterval)
	defer supply.Stop()
	buy := time.NewTicker(s.cfg.BuyInterval)
	defer buy.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return st, nil
		case <-supply.C:
			st, err = s.step(ctx, domain.BranchSupply, st)
		case <-buy.C:
			st, err = s.step(ctx, domain.BranchBuy, st)
		}
		if err != nil {
			return st, err
		}
	}
}

// step ejecuta un tick de la rama dada. Un fallo contenido deja st igual.
func (s *Scheduler) step(ctx context.Context, branch domain.Branch, st State) (State, error) {
	var (
		next State
		err  error
	)
	if branch == domain.BranchSupply {
		next, err = s.SupplyTick(ctx, st)
	} else {
		next, err = s.BuyTick(ctx, st)
	}
	if err != nil {
		return st, s.contain(ctx, branch, err)
	}
	return next, nil
}

// RunOnce ejecuta un supply check y un buy check, en ese orden.
// Los errores no se contienen.
func (s *Scheduler) RunOnce(ctx context.Context, st State) (State, error) {
	st, err := s.SupplyTick(ctx, st)
	if err != nil {
		return st, err
	}
	return s.BuyTick(ctx, st)
}

// SupplyTick agrega el feed y, si hay déficit, pide listings nuevos a la
// estrategia con la siguiente cuenta mint. Si falla devuelve st sin cambios.
func (s *Scheduler) SupplyTick(ctx context.Context, st State) (State, error) {
	start := time.Now()
	res, err := s.agg.Aggregate(ctx, s.cfg.Token, s.cfg.PageSize)
	if err != nil {
		return st, fmt.Errorf("supply tick: %w", err)
	}

	metrics.ListedSupply.Set(float64(res.TotalAmount))
	metrics.Deficit.Set(boolGauge(res.Deficit))

	next := st
	switch {
	case res.TotalCount == 0:
		slog.Info("[list] no lists")
	case !res.Deficit:
		slog.Debug("[list] supply above threshold",
			"total", domain.FormatUnits(res.TotalAmount),
			"threshold", domain.FormatUnits(res.Threshold),
		)
	}

	if res.Deficit {
		minter, ok := domain.Pick(s.pools.Mint, next.AccountIndex)
		if !ok {
			slog.Warn("[list] deficit but mint pool is empty")
		} else {
			slog.Info("[list] add lists",
				"total", domain.FormatUnits(res.TotalAmount),
				"threshold", domain.FormatUnits(res.Threshold),
				"minter", minter.Address,
			)
			if err := s.list.AddListings(ctx, s.cfg.Token, minter, res); err != nil {
				return st, fmt.Errorf("supply tick: add listings: %w", err)
			}
			next.AccountIndex++
		}
	}

	s.record(ctx, domain.TickRecord{
		Branch:      domain.BranchSupply,
		StartedAt:   start,
		Duration:    time.Since(start),
		TotalCount:  res.TotalCount,
		TotalAmount: res.TotalAmount,
		Threshold:   res.Threshold,
		Deficit:     res.Deficit,
		PriceIndex:  st.PriceIndex,
	})
	return next, nil
}

// BuyTick evalúa el feed contra el precio suelo actual y entrega cada
// listing elegible a la estrategia de compra. El índice de precio avanza
// una posición por tick completado, también cuando no hay listings.
// Si falla devuelve st sin cambios.
func (s *Scheduler) BuyTick(ctx context.Context, st State) (State, error) {
	start := time.Now()
	floor := s.schedule.At(st.PriceIndex)
	metrics.FloorPrice.Set(float64(floor))

	ev, err := s.engine.Evaluate(ctx, s.cfg.Token, s.cfg.PageSize, floor)
	if err != nil {
		return st, fmt.Errorf("buy tick: %w", err)
	}

	next := st
	if ev.TotalCount == 0 {
		slog.Info("[buy] no lists", "floor_price", domain.FormatUnits(floor))
	} else {
		slog.Info("[buy] total lists",
			"total", ev.TotalCount,
			"pages", ev.Pages,
			"floor_price", domain.FormatUnits(floor),
			"candidates", len(ev.Candidates),
		)
	}

	metrics.BuyCandidates.Add(float64(len(ev.Candidates)))
	for _, c := range ev.Candidates {
		buyer, ok := domain.Pick(s.pools.Buy, next.AccountIndex)
		if !ok {
			slog.Warn("[buy] eligible listing but buy pool is empty", "page", c.Page, "price", c.Price)
			break
		}
		if err := s.buy.Buy(ctx, s.cfg.Token, buyer, c); err != nil {
			return st, fmt.Errorf("buy tick: buy page %d item %d: %w", c.Page, c.Position, err)
		}
		next.AccountIndex++
	}
	next.PriceIndex = s.schedule.Next(st.PriceIndex)

	s.record(ctx, domain.TickRecord{
		Branch:     domain.BranchBuy,
		StartedAt:  start,
		Duration:   time.Since(start),
		TotalCount: ev.TotalCount,
		FloorPrice: floor,
		PriceIndex: st.PriceIndex,
		Candidates: len(ev.Candidates),
	})
	return next, nil
}

// contain decide si el error de un tick es recuperable.
// Fallos del gateway (incluido timeout) y cancelación: se loguean y el loop sigue.
// El resto (parse, storage, estrategias) se propaga.
func (s *Scheduler) contain(ctx context.Context, branch domain.Branch, err error) error {
	if err == nil {
		return nil
	}
	metrics.Ticks.WithLabelValues(string(branch), "error").Inc()

	if ctx.Err() != nil {
		return nil
	}
	if errors.Is(err, domain.ErrGateway) {
		metrics.GatewayErrors.WithLabelValues(string(branch)).Inc()
		slog.Warn("tick skipped: gateway failure", "branch", branch, "err", err)
		return nil
	}
	slog.Error("tick failed", "branch", branch, "err", err)
	return err
}

// record actualiza métricas y guarda el tick. Un fallo del store no para el loop.
func (s *Scheduler) record(ctx context.Context, rec domain.TickRecord) {
	rec.ID = uuid.NewString()
	rec.Token = s.cfg.Token

	result := "ok"
	if rec.TotalCount == 0 {
		result = "empty"
	}
	metrics.Ticks.WithLabelValues(string(rec.Branch), result).Inc()
	metrics.TickDuration.WithLabelValues(string(rec.Branch)).Observe(rec.Duration.Seconds())

	slog.Debug("tick complete",
		"id", rec.ID,
		"branch", rec.Branch,
		"duration", rec.Duration.Round(time.Millisecond),
	)

	if s.ticks == nil {
		return
	}
	if err := s.ticks.SaveTick(ctx, rec); err != nil {
		slog.Warn("storage error", "err", err)
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
