// Package metrics exports Prometheus metrics for Brix fields and online
// matches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/brix-arcade/internal/games/brix/core"
	"github.com/vovakirdan/brix-arcade/internal/multiplayer"
)

const namespace = "brix"

// Metrics holds every collector. It implements multiplayer.MatchObserver
// and hands out core.EventSinks. All methods are safe for concurrent use.
type Metrics struct {
	gatherer prometheus.Gatherer

	events   *prometheus.CounterVec
	blocks   *prometheus.CounterVec
	combos   *prometheus.HistogramVec
	chains   *prometheus.HistogramVec
	started  *prometheus.CounterVec
	ended    *prometheus.CounterVec
	active   prometheus.Gauge
	lobbies  prometheus.Gauge
	tickTime *prometheus.HistogramVec
	matchLen *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_events_total",
			Help:      "Field events by kind.",
		}, []string{"game", "kind"}),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_cleared_total",
			Help:      "Colored blocks that finished breaking.",
		}, []string{"game", "color"}),
		combos: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_combo_size",
			Help:      "Blocks cleared per match.",
			Buckets:   []float64{3, 4, 5, 6, 8, 10, 13},
		}, []string{"game"}),
		chains: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Chaining matches per finished chain.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
		}, []string{"game"}),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_started_total",
			Help:      "Online matches started.",
		}, []string{"game"}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_ended_total",
			Help:      "Online matches ended, by reason.",
		}, []string{"game", "reason"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "matches_active",
			Help:      "Online matches in progress.",
		}),
		lobbies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lobbies_open",
			Help:      "Lobbies waiting for a second player.",
		}),
		tickTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_tick_seconds",
			Help:      "Time spent simulating one match tick.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}, []string{"game"}),
		matchLen: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_length_ticks",
			Help:      "Ticks played per online match.",
			Buckets:   prometheus.ExponentialBuckets(300, 2, 8),
		}, []string{"game"}),
	}

	reg.MustRegister(
		m.events, m.blocks, m.combos, m.chains,
		m.started, m.ended, m.active, m.lobbies,
		m.tickTime, m.matchLen,
	)
	return m
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Sink returns an event sink that counts the events of one field of game.
func (m *Metrics) Sink(game string) core.EventSink {
	return &fieldSink{m: m, game: game}
}

// SinkFactory adapts Sink to the per-player factories rounds accept.
func (m *Metrics) SinkFactory(game string) func(player int) core.EventSink {
	return func(int) core.EventSink { return m.Sink(game) }
}

// MatchStarted implements multiplayer.MatchObserver.
func (m *Metrics) MatchStarted(gameID string) {
	m.started.WithLabelValues(gameID).Inc()
	m.active.Inc()
}

// MatchEnded implements multiplayer.MatchObserver.
func (m *Metrics) MatchEnded(gameID string, result multiplayer.MatchResult) {
	m.ended.WithLabelValues(gameID, reasonLabel(result.Reason)).Inc()
	m.active.Dec()
	m.matchLen.WithLabelValues(gameID).Observe(float64(result.Ticks))
}

// TickObserved implements multiplayer.MatchObserver.
func (m *Metrics) TickObserved(gameID string, elapsed time.Duration) {
	m.tickTime.WithLabelValues(gameID).Observe(elapsed.Seconds())
}

// LobbiesChanged implements multiplayer.MatchObserver.
func (m *Metrics) LobbiesChanged(open int) {
	m.lobbies.Set(float64(open))
}

func reasonLabel(r multiplayer.MatchEndReason) string {
	switch r {
	case multiplayer.MatchEndReasonCompleted:
		return "completed"
	case multiplayer.MatchEndReasonDisconnect:
		return "disconnect"
	case multiplayer.MatchEndReasonCancelled:
		return "cancelled"
	default:
		return "other"
	}
}

type fieldSink struct {
	m    *Metrics
	game string
}

func (s *fieldSink) Fire(e core.Event) {
	s.m.events.WithLabelValues(s.game, eventKind(e)).Inc()
	switch e := e.(type) {
	case core.MatchResolved:
		s.m.combos.WithLabelValues(s.game).Observe(float64(e.Combo))
	case core.ChainFinished:
		s.m.chains.WithLabelValues(s.game).Observe(float64(e.Counter))
	case core.BlockDied:
		s.m.blocks.WithLabelValues(s.game, e.Color.String()).Inc()
	}
}

func eventKind(e core.Event) string {
	switch e.(type) {
	case core.CursorMoved:
		return "cursor_moved"
	case core.SwapBegun:
		return "swap_begun"
	case core.MatchResolved:
		return "match_resolved"
	case core.ChainFinished:
		return "chain_finished"
	case core.BlockDied:
		return "block_died"
	case core.GarbageDissolved:
		return "garbage_dissolved"
	default:
		return "unknown"
	}
}
