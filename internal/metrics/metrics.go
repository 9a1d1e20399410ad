// internal/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry. A nil *Metrics is valid
// and records nothing, so tests can pass nil.
type Metrics struct {
	// Lifecycle counters
	AssetsMinted  prometheus.Counter
	Transfers     *prometheus.CounterVec
	LicensesSold  prometheus.Counter
	DepositsTotal prometheus.Counter

	// Value volumes, in credits
	RoyaltyVolume    prometheus.Counter
	LicenseFeeVolume prometheus.Counter
	DepositVolume    prometheus.Counter

	// Current pause state (0 or 1)
	PausedState prometheus.Gauge

	// HTTP request latency by route, method and status
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all registry metrics registered on the
// default registerer.
func New() *Metrics {
	return &Metrics{
		AssetsMinted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_assets_minted_total",
			Help: "Total number of assets minted",
		}),

		Transfers: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_transfers_total",
			Help: "Total ownership transfers by kind",
		}, []string{"kind"}), // kind: "direct", "sale"

		LicensesSold: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_licenses_sold_total",
			Help: "Total license grants purchased",
		}),

		DepositsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_deposits_total",
			Help: "Total completed ledger deposits",
		}),

		RoyaltyVolume: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_royalty_credits_total",
			Help: "Cumulative royalty credits accrued to creators",
		}),

		LicenseFeeVolume: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_license_fee_credits_total",
			Help: "Cumulative license fee credits paid to creators",
		}),

		DepositVolume: promauto.NewCounter(prometheus.CounterOpts{
			Name: "registry_deposit_credits_total",
			Help: "Cumulative credits funded through deposits",
		}),

		PausedState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "registry_paused",
			Help: "Whether the registry is paused (1) or active (0)",
		}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "HTTP request duration by route, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
	}
}

// IncrementMinted records n minted assets.
func (m *Metrics) IncrementMinted(n int) {
	if m != nil {
		m.AssetsMinted.Add(float64(n))
	}
}

// IncrementTransfer records one transfer of the given kind.
func (m *Metrics) IncrementTransfer(kind string) {
	if m != nil {
		m.Transfers.WithLabelValues(kind).Inc()
	}
}

// ObserveRoyalty records royalty credits accrued by a sale.
func (m *Metrics) ObserveRoyalty(amount uint64) {
	if m != nil {
		m.RoyaltyVolume.Add(float64(amount))
	}
}

// IncrementLicense records a purchased grant and its fee.
func (m *Metrics) IncrementLicense(fee uint64) {
	if m != nil {
		m.LicensesSold.Inc()
		m.LicenseFeeVolume.Add(float64(fee))
	}
}

// IncrementDeposits records one completed deposit and its amount.
func (m *Metrics) IncrementDeposits(amount uint64) {
	if m != nil {
		m.DepositsTotal.Inc()
		m.DepositVolume.Add(float64(amount))
	}
}

// SetPaused reflects the registry pause flag.
func (m *Metrics) SetPaused(paused bool) {
	if m == nil {
		return
	}
	if paused {
		m.PausedState.Set(1)
	} else {
		m.PausedState.Set(0)
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
