package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Row kinds reported on raas_upload_rows_total
const (
	RowKindProcessed = "processed"
	RowKindError     = "error"
	RowKindNotFound  = "not_found"
	RowKindDuplicate = "duplicate"
)

// BusinessMetrics tracks upload batches, their rows, the permanent mirror
// and generated invoices. A nil *BusinessMetrics records nothing.
type BusinessMetrics struct {
	batchesTotal      *Counter
	rowsTotal         *Counter
	mirrorFailures    *Counter
	uploadDuration    *Histogram
	invoicesGenerated *Counter
}

// NewBusinessMetrics creates the metric instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error

	if bm.batchesTotal, err = NewCounter(meter,
		"raas_upload_batches_total",
		"Upload batches finished, by final status",
		"{batch}",
	); err != nil {
		return nil, err
	}

	if bm.rowsTotal, err = NewCounter(meter,
		"raas_upload_rows_total",
		"Spreadsheet rows handled, by outcome kind",
		"{row}",
	); err != nil {
		return nil, err
	}

	if bm.mirrorFailures, err = NewCounter(meter,
		"raas_mirror_failures_total",
		"Uploads whose permanent history mirror failed",
		"{failure}",
	); err != nil {
		return nil, err
	}

	if bm.uploadDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "raas_upload_duration_seconds",
		Description: "Time spent processing one upload",
		Unit:        "s",
		Boundaries:  UploadDurationBuckets,
	}); err != nil {
		return nil, err
	}

	if bm.invoicesGenerated, err = NewCounter(meter,
		"raas_invoices_generated_total",
		"Invoice drafts produced by the generation engine",
		"{invoice}",
	); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordBatch records a finished batch with its status, strategy and duration
func (bm *BusinessMetrics) RecordBatch(ctx context.Context, status, strategy string, d time.Duration) {
	if bm == nil {
		return
	}
	bm.batchesTotal.Inc(ctx, AttrStatus.String(status), AttrStrategy.String(strategy))
	bm.uploadDuration.RecordDuration(ctx, d, AttrStatus.String(status), AttrStrategy.String(strategy))
}

// RecordRows records the row counters of a batch. Zero counts are skipped.
func (bm *BusinessMetrics) RecordRows(ctx context.Context, processed, errors, notFound, duplicate int) {
	if bm == nil {
		return
	}
	for kind, n := range map[string]int{
		RowKindProcessed: processed,
		RowKindError:     errors,
		RowKindNotFound:  notFound,
		RowKindDuplicate: duplicate,
	} {
		if n > 0 {
			bm.rowsTotal.Add(ctx, int64(n), AttrKind.String(kind))
		}
	}
}

// RecordMirrorFailure counts a failed permanent history mirror
func (bm *BusinessMetrics) RecordMirrorFailure(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.mirrorFailures.Inc(ctx)
}

// RecordInvoicesGenerated counts generated invoice drafts
func (bm *BusinessMetrics) RecordInvoicesGenerated(ctx context.Context, n int) {
	if bm == nil || n <= 0 {
		return
	}
	bm.invoicesGenerated.Add(ctx, int64(n))
}
