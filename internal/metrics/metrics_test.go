package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Observe(OperationAddItem, time.Now(), nil, "")
	m.Observe(OperationAddItem, time.Now(), errors.New("boom"), "bad_request")
	m.Observe(OperationAddItem, time.Now(), errors.New("boom"), "bad_request")

	assert.EqualValues(t, 1, testutil.ToFloat64(m.operations.WithLabelValues(OperationAddItem, ResultSuccess)))
	assert.EqualValues(t, 2, testutil.ToFloat64(m.operations.WithLabelValues(OperationAddItem, ResultFailure)))
	assert.EqualValues(t, 2, testutil.ToFloat64(m.failures.WithLabelValues(OperationAddItem, "bad_request")))
}

func TestOrderCreated(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderCreated(5499.95)

	assert.EqualValues(t, 1, testutil.ToFloat64(m.ordersCreated))
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := New(registry)
	second := New(registry)

	first.OrderCreated(10)
	second.OrderCreated(10)

	assert.EqualValues(t, 2, testutil.ToFloat64(second.ordersCreated))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe(OperationCheckout, time.Now(), nil, "")
		m.OrderCreated(1)
	})
}
