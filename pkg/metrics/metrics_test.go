package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(nil)

	m.IncrementCadastrosCreated()
	m.IncrementFailure(StageDecode)
	m.IncrementFailure(StageDecode)
	m.AddDocuments(2, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CadastrosCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CadastroFailures.WithLabelValues(StageDecode)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CadastroFailures.WithLabelValues(StagePersist)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsSkipped))
}

func TestObserveRequest(t *testing.T) {
	m := New(nil)
	m.ObserveRequest("/cadastro", "POST", 201, time.Now())

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestNew_SeparateRegistries(t *testing.T) {
	a := New(nil)
	b := New(nil)
	assert.NotSame(t, a.Registry(), b.Registry())
}
