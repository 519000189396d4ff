// Package metrics exposes pool operation counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/fleshka4/cpamm/internal/apperrors"
)

const namespace = "cpamm"

// Operation names used as the op label.
const (
	OpInitializeConfig = "initialize_config"
	OpUpdateConfig     = "update_config"
	OpCreatePool       = "create_pool"
	OpAddLiquidity     = "add_liquidity"
	OpRemoveLiquidity  = "remove_liquidity"
	OpSwap             = "swap"
)

// Metrics holds the service collectors.
type Metrics struct {
	operations    *prometheus.CounterVec
	swapFees      prometheus.Counter
	protocolShare prometheus.Counter
	pools         prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "number of pool operations by outcome",
		}, []string{"op", "result"}),
		swapFees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swap_fees_total",
			Help:      "input units charged as swap fees",
		}),
		protocolShare: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_fee_share_total",
			Help:      "part of swap fees attributed to the protocol fee recipient",
		}),
		pools: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pools",
			Help:      "number of pools",
		}),
	}

	err := multierr.Combine(
		reg.Register(m.operations),
		reg.Register(m.swapFees),
		reg.Register(m.protocolShare),
		reg.Register(m.pools),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records the outcome of op. Failures are labelled with their error kind.
func (m *Metrics) Observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = apperrors.Kind(err)
	}
	m.operations.WithLabelValues(op, result).Inc()
}

// SwapFee records the fee of one swap and the protocol's share of it.
func (m *Metrics) SwapFee(total, protocolShare uint64) {
	m.swapFees.Add(float64(total))
	m.protocolShare.Add(float64(protocolShare))
}

// PoolCreated bumps the pool gauge.
func (m *Metrics) PoolCreated() {
	m.pools.Inc()
}

// SetPools sets the pool gauge.
func (m *Metrics) SetPools(n int) {
	m.pools.Set(float64(n))
}
