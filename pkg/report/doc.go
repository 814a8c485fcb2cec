// Package report turns a batch run into priced rows: one row per measured
// part with its quantity, cutting length, net area and costs, followed by a
// grand total, the diagnostics raised and the files that were skipped or
// failed. A report renders as a terminal table or as JSON.
package report
