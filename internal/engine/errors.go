// Package engine implements the statement parsing and reconciliation
// pipeline: classification, metadata extraction, segmentation, token
// normalization, balance-driven reconciliation and ledger validation.
package engine

import "github.com/pkg/errors"

// Warning codes. Field-level problems degrade gracefully and are collected
// under these prefixes; only document-level impossibility aborts a parse.
const (
	WarnFormatUnrecognized     = "FORMAT_UNRECOGNIZED"
	WarnMetadataFieldMissing   = "METADATA_FIELD_MISSING"
	WarnReconciliationMismatch = "RECONCILIATION_MISMATCH"
)

// Fatal parse errors.
var (
	// ErrMalformedInput means the caller violated the input contract
	// (empty or whitespace-only text).
	ErrMalformedInput = errors.New("malformed input: statement text is empty")

	// ErrNoTransactionsFound means segmentation produced zero usable
	// chunks from non-trivial text. That is almost always an upstream
	// extraction failure worth surfacing rather than an empty statement.
	ErrNoTransactionsFound = errors.New("no transactions found in statement text")
)
