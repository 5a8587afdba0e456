package engine

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
)

// Parser composes the pipeline stages into the single entry point
// Parse(rawText, sourceFile). A Parser is stateless between calls and safe
// for concurrent use: each call owns its own running balance and the
// profile registry is read-only.
type Parser struct {
	log *logrus.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger routes engine diagnostics to the given logger.
func WithLogger(log *logrus.Logger) Option {
	return func(p *Parser) { p.log = log }
}

// New builds a Parser. Without options, diagnostics are discarded.
func New(opts ...Option) *Parser {
	p := &Parser{log: logrus.New()}
	p.log.SetLevel(logrus.PanicLevel)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse turns extracted statement text into reconciled transactions plus
// metadata and a warning list.
//
// Ordinary extraction failures (unrecognized layout, missing metadata
// fields, unreconcilable rows) degrade into warnings. Only document-level
// impossibility is fatal: empty input (ErrMalformedInput) and text that
// yields zero transactions (ErrNoTransactionsFound). On
// ErrNoTransactionsFound the returned result still carries whatever
// metadata was extracted.
func (p *Parser) Parse(rawText, sourceFile string) (*models.ParseResult, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrMalformedInput
	}
	prof, warnings := Classify(rawText)
	return p.parse(prof, warnings, rawText, sourceFile)
}

// ParseWithProfile bypasses classification for callers that know the
// institution up front (the --bank flag, the API bank parameter).
func (p *Parser) ParseWithProfile(prof *profile.Profile, rawText, sourceFile string) (*models.ParseResult, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrMalformedInput
	}
	return p.parse(prof, nil, rawText, sourceFile)
}

func (p *Parser) parse(prof *profile.Profile, warnings []string, rawText, sourceFile string) (*models.ParseResult, error) {
	log := p.log.WithFields(logrus.Fields{
		"bank":   prof.Bank,
		"source": sourceFile,
	})

	md, ctx, mdWarnings := ExtractMetadata(rawText, prof)
	warnings = append(warnings, mdWarnings...)

	seg := Segment(rawText, prof)
	log.WithFields(logrus.Fields{
		"chunks":  len(seg.Chunks),
		"dropped": len(seg.Dropped),
	}).Debug("segmented statement")

	rec := NewReconciler(prof, md.OpeningBalance)
	var txns []models.Transaction

	for _, chunk := range seg.Chunks {
		date, err := NormalizeDate(chunk.DateToken, chunk.Grammar, ctx)
		if err != nil {
			log.WithField("token", chunk.DateToken).Debug("discarding chunk with unparseable date")
			continue
		}

		tokens := ExtractFields(chunk.Body, prof.Money)
		res, ok := rec.Resolve(chunk, tokens)
		if !ok {
			continue
		}
		warnings = append(warnings, res.Warnings...)

		txns = append(txns, models.Transaction{
			Date:        date,
			Description: CleanDescription(chunk.Body, res.Cuts, prof),
			Amount:      res.Amount,
			Balance:     res.Balance,
			Account:     md.AccountNumber,
			ClientName:  md.ClientName,
			Bank:        md.Bank,
			SourceFile:  sourceFile,
		})
	}

	if len(txns) == 0 {
		return &models.ParseResult{
			Metadata: md,
			Warnings: warnings,
			Report:   models.ReconciliationReport{Valid: false},
		}, ErrNoTransactionsFound
	}

	report := ValidateLedger(txns)
	warnings = append(warnings, report.Warnings...)

	log.WithFields(logrus.Fields{
		"transactions": len(txns),
		"warnings":     len(warnings),
		"ledgerValid":  report.Valid,
	}).Info("parsed statement")

	return &models.ParseResult{
		Metadata:     md,
		Transactions: txns,
		Warnings:     warnings,
		Report:       report,
	}, nil
}
