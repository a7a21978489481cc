package external

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/variant-context-server/internal/domain"
)

type scriptedClient struct {
	record *domain.AnnotationRecord
	err    error
	calls  int
}

func (s *scriptedClient) Fetch(_ context.Context, _ string) (*domain.AnnotationRecord, error) {
	s.calls++
	return s.record, s.err
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestResilientClientPassesThroughSuccess(t *testing.T) {
	upstream := &scriptedClient{record: &domain.AnnotationRecord{Input: "rs113488022"}}
	client := NewResilientAnnotationClient(upstream, nil, discardLogger())

	record, err := client.Fetch(context.Background(), "rs113488022")
	require.NoError(t, err)
	assert.Equal(t, "rs113488022", record.Input)
	assert.Equal(t, 1, upstream.calls)
}

func TestResilientClientOpensAfterRepeatedFailures(t *testing.T) {
	upstream := &scriptedClient{err: fmt.Errorf("status 500: %w", domain.ErrUpstreamUnavailable)}
	client := NewResilientAnnotationClient(upstream, nil, discardLogger())

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), "rs113488022")
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	}
	require.Equal(t, 3, upstream.calls)

	// The breaker is open now; the upstream client is no longer consulted.
	_, err := client.Fetch(context.Background(), "rs113488022")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 3, upstream.calls)
}

func TestResilientClientNotFoundDoesNotTrip(t *testing.T) {
	upstream := &scriptedClient{err: fmt.Errorf("no annotation: %w", domain.ErrNotFound)}
	client := NewResilientAnnotationClient(upstream, nil, discardLogger())

	for i := 0; i < 10; i++ {
		_, err := client.Fetch(context.Background(), "rs0")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, 10, upstream.calls)
}

func TestResilientClientOtherErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	upstream := &scriptedClient{err: boom}
	client := NewResilientAnnotationClient(upstream, nil, discardLogger())

	_, err := client.Fetch(context.Background(), "rs113488022")
	assert.ErrorIs(t, err, boom)
}
