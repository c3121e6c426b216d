package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OperationGetCart     = "get_cart"
	OperationCreateCart  = "create_cart"
	OperationAddItem     = "add_item"
	OperationUpdateItem  = "update_item"
	OperationRemoveItem  = "remove_item"
	OperationClearCart   = "clear_cart"
	OperationCheckout    = "checkout"
	OperationGetOrders   = "get_orders"
	OperationGetOrder    = "get_order"
	ResultSuccess        = "success"
	ResultFailure        = "failure"
	defaultNamespace     = "checkout"
	labelOperation       = "operation"
	labelResult          = "result"
	labelErrorKind       = "kind"
	operationDurationKey = "operation_duration_seconds"
)

type Metrics struct {
	operations      *prometheus.CounterVec
	failures        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	ordersCreated   prometheus.Counter
	orderTotalPrice prometheus.Histogram
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &Metrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Namespace: defaultNamespace,
			Name:      "operations_total",
			Help:      "Total number of cart and order operations by result",
		}, []string{labelOperation, labelResult}),
		failures: registerCounterVec(registerer, prometheus.CounterOpts{
			Namespace: defaultNamespace,
			Name:      "operation_failures_total",
			Help:      "Total number of failed operations by error kind",
		}, []string{labelOperation, labelErrorKind}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Namespace: defaultNamespace,
			Name:      operationDurationKey,
			Help:      "Duration of cart and order operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{labelOperation}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Namespace: defaultNamespace,
			Name:      "orders_created_total",
			Help:      "Total number of orders created from carts",
		}),
		orderTotalPrice: registerHistogram(registerer, prometheus.HistogramOpts{
			Namespace: defaultNamespace,
			Name:      "order_total_price",
			Help:      "Total price of created orders",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}
}

// Observe is nil safe so services can run without metrics.
func (m *Metrics) Observe(operation string, start time.Time, err error, kind string) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.operations.WithLabelValues(operation, ResultFailure).Inc()
		m.failures.WithLabelValues(operation, kind).Inc()
		return
	}
	m.operations.WithLabelValues(operation, ResultSuccess).Inc()
}

func (m *Metrics) OrderCreated(totalPrice float64) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderTotalPrice.Observe(totalPrice)
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return collector
}

func registerCounterVec(
	registerer prometheus.Registerer,
	opts prometheus.CounterOpts,
	labels []string,
) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return collector
}

func registerHistogram(
	registerer prometheus.Registerer,
	opts prometheus.HistogramOpts,
) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(prometheus.Histogram)
		}
		panic(err)
	}
	return collector
}

func registerHistogramVec(
	registerer prometheus.Registerer,
	opts prometheus.HistogramOpts,
	labels []string,
) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(*prometheus.HistogramVec)
		}
		panic(err)
	}
	return collector
}
