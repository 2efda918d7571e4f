package ingestion

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans installs a recording global tracer provider for one test
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func spansByName(rec *tracetest.SpanRecorder) map[string]sdktrace.ReadOnlySpan {
	out := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range rec.Ended() {
		out[s.Name()] = s
	}
	return out
}

func TestDefaultStrategy_Process_Spans(t *testing.T) {
	rec := recordSpans(t)
	f := newStrategyFixture(t)

	f.installations.On("FindIDsByNumbers", mock.Anything, f.distributorID, []string{"3001", "3002"}).
		Return(map[string]uuid.UUID{"3001": f.consumerID, "3002": f.otherID}, nil)
	f.expectSaves()
	f.bills.On("CreateSkipDuplicates", mock.Anything, mock.Anything).Return(int64(2), nil)
	f.installations.On("FindByIDsWithDetails", mock.Anything, mock.Anything).
		Return(f.installationsWithDetails(), nil)
	f.permanent.On("CreateSkipDuplicates", mock.Anything, mock.Anything).
		Return(int64(0), assert.AnError)

	result, err := f.strategy.Process(context.Background(), processInput(f.twoRowWorkbook(t), f.distributorID))
	require.NoError(t, err)

	spans := spansByName(rec)
	for _, name := range []string{"ingestion.process", "ingestion.read", "ingestion.validate", "ingestion.write_bills", "ingestion.mirror"} {
		require.Contains(t, spans, name)
	}

	root := spans["ingestion.process"]
	for _, child := range []string{"ingestion.read", "ingestion.validate", "ingestion.write_bills", "ingestion.mirror"} {
		assert.Equal(t, root.SpanContext().SpanID(), spans[child].Parent().SpanID(), child)
	}
	assert.Equal(t, codes.Unset, root.Status().Code)
	assert.Contains(t, root.Attributes(), attribute.String("upload_batch_id", result.Batch.ID.String()))

	// mirror failures degrade the batch but are visible on the span
	assert.Equal(t, codes.Error, spans["ingestion.mirror"].Status().Code)
}

func TestDefaultStrategy_Process_RejectedSpanIsError(t *testing.T) {
	rec := recordSpans(t)
	f := newStrategyFixture(t)

	f.installations.On("FindIDsByNumbers", mock.Anything, f.distributorID, mock.Anything).
		Return(map[string]uuid.UUID{"3001": f.consumerID}, nil)
	f.expectSaves()

	_, err := f.strategy.Process(context.Background(), processInput(f.twoRowWorkbook(t), f.distributorID))
	require.Error(t, err)

	spans := spansByName(rec)
	assert.Equal(t, codes.Error, spans["ingestion.validate"].Status().Code)
	assert.Equal(t, codes.Error, spans["ingestion.process"].Status().Code)
	assert.NotContains(t, spans, "ingestion.write_bills")
}
