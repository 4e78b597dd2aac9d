package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator counting transactions per path and result code.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ escrowd.Decorator = Metrics{}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "escrowd",
			Name:      "transactions_total",
			Help:      "Number of processed transactions.",
		}, []string{"call", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "escrowd",
			Name:      "transaction_duration_seconds",
			Help:      "Time spent processing a transaction.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"call", "path"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return m, errors.Wrapf(errors.ErrState, "register metrics: %s", err)
		}
	}
	return m, nil
}

// Check counts the checked transaction.
func (m Metrics) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", escrowd.GetPath(tx), start, err)
	return res, err
}

// Deliver counts the delivered transaction.
func (m Metrics) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", escrowd.GetPath(tx), start, err)
	return res, err
}

func (m Metrics) observe(call, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(call, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(call, path).Observe(time.Since(start).Seconds())
}
