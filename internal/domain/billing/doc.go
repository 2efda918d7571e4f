// Package billing derives customer invoices from accumulated energy readings.
//
// The package is pure: it does no I/O and never mutates its inputs.
//
// Entry points:
//   - Generator.Generate: builds one InvoiceData per consumer installation per period
//   - Recalculate: applies a partial rate override to an existing InvoiceData
//
// Monetary arithmetic goes through shopspring/decimal and is converted back to
// float64 at the edges, so that values such as 0.96 * (1 - 0.20) come out as 0.768.
package billing
