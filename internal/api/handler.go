// Package api exposes the parsing engine over HTTP for the UI frontend.
// Authentication and credit billing live in external services; the
// X-Parse-Id header on every response lets them attribute consumption.
package api

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/config"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/engine"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/extractor"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/writer"
)

// Version is reported by the health endpoint and convert responses.
const Version = "2.0.0"

// pageBreak separates pages in client-side extracted text uploads.
const pageBreak = "\n---PAGE_BREAK---\n"

// ConvertResponse is the JSON body of POST /api/convert.
type ConvertResponse struct {
	Success      bool                        `json:"success"`
	Error        string                      `json:"error,omitempty"`
	ParseID      string                      `json:"parseId"`
	Bank         string                      `json:"bank,omitempty"`
	Metadata     *models.StatementMetadata   `json:"metadata,omitempty"`
	Transactions []models.Transaction        `json:"transactions"`
	Warnings     []string                    `json:"warnings"`
	Report       models.ReconciliationReport `json:"report"`
	CSV          string                      `json:"csv,omitempty"`
	TotalDebit   string                      `json:"totalDebit"`
	TotalCredit  string                      `json:"totalCredit"`
	Count        int                         `json:"count"`
	Version      string                      `json:"version"`
}

// Server wires the engine into fiber handlers.
type Server struct {
	cfg    config.Config
	log    *logrus.Logger
	parser *engine.Parser
}

// New builds the API server.
func New(cfg config.Config, log *logrus.Logger) *Server {
	return &Server{
		cfg:    cfg,
		log:    log,
		parser: engine.New(engine.WithLogger(log)),
	}
}

// App assembles the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "youscan-backend",
		BodyLimit: s.cfg.MaxUploadMB << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/api/health", s.handleHealth)
	app.Post("/api/convert", s.handleConvert)
	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	parseID := uuid.NewString()
	c.Set("X-Parse-Id", parseID)
	log := s.log.WithField("parseId", parseID)

	rawText, sourceFile, status, errMsg := s.statementText(c)
	if errMsg != "" {
		return writeError(c, parseID, status, errMsg)
	}

	var prof *profile.Profile
	if bank := c.FormValue("bank"); bank != "" {
		prof = profile.ByKey(strings.ToLower(bank))
		if prof == nil {
			return writeError(c, parseID, fiber.StatusBadRequest,
				"unknown bank "+bank+"; use capitec, fnb, absa, standardbank, nedbank or generic")
		}
	}

	var result *models.ParseResult
	var err error
	if prof != nil {
		result, err = s.parser.ParseWithProfile(prof, rawText, sourceFile)
	} else {
		result, err = s.parser.Parse(rawText, sourceFile)
	}
	if err != nil {
		log.WithError(err).Warn("parse failed")
		resp := failureResponse(parseID, err.Error())
		if result != nil {
			resp.Metadata = &result.Metadata
			resp.Warnings = result.Warnings
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
	if err := cw.Write(&csvBuf, result); err != nil {
		log.WithError(err).Error("csv generation failed")
		return writeError(c, parseID, fiber.StatusInternalServerError, "csv generation failed")
	}

	totalDebit, totalCredit := totals(result.Transactions)
	resp := ConvertResponse{
		Success:      true,
		ParseID:      parseID,
		Bank:         result.Metadata.Bank,
		Metadata:     &result.Metadata,
		Transactions: result.Transactions,
		Warnings:     emptyNotNil(result.Warnings),
		Report:       result.Report,
		CSV:          csvBuf.String(),
		TotalDebit:   totalDebit.StringFixed(2),
		TotalCredit:  totalCredit.StringFixed(2),
		Count:        len(result.Transactions),
		Version:      Version,
	}

	log.WithFields(logrus.Fields{
		"bank":         resp.Bank,
		"transactions": resp.Count,
		"warnings":     len(resp.Warnings),
	}).Info("converted statement")
	return c.JSON(resp)
}

// statementText resolves the raw statement text for a request: either the
// client supplied pre-extracted text, or an uploaded PDF is extracted
// server-side.
func (s *Server) statementText(c *fiber.Ctx) (text, sourceFile string, status int, errMsg string) {
	if extracted := c.FormValue("extractedText"); extracted != "" {
		var pages []string
		for _, page := range strings.Split(extracted, pageBreak) {
			if strings.TrimSpace(page) != "" {
				pages = append(pages, page)
			}
		}
		return strings.Join(pages, "\n"), c.FormValue("sourceFile", "upload"), 0, ""
	}

	header, err := c.FormFile("file")
	if err != nil {
		return "", "", fiber.StatusBadRequest, "no file uploaded; use form field 'file' or 'extractedText'"
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return "", "", fiber.StatusBadRequest, "only pdf files are supported"
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", "", fiber.StatusInternalServerError, "failed to buffer upload"
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(header, tmpPath); err != nil {
		return "", "", fiber.StatusInternalServerError, "failed to save upload"
	}

	pages, err := extractor.ExtractText(tmpPath)
	if err != nil {
		return "", "", fiber.StatusUnprocessableEntity, err.Error()
	}
	return strings.Join(pages, "\n"), filepath.Base(header.Filename), 0, ""
}

func totals(txns []models.Transaction) (debit, credit decimal.Decimal) {
	for _, t := range txns {
		if t.Amount.IsNegative() {
			debit = debit.Add(t.Amount.Abs())
		} else {
			credit = credit.Add(t.Amount)
		}
	}
	return debit, credit
}

func failureResponse(parseID, msg string) ConvertResponse {
	return ConvertResponse{
		ParseID:      parseID,
		Error:        msg,
		Transactions: []models.Transaction{},
		Warnings:     []string{},
		TotalDebit:   "0.00",
		TotalCredit:  "0.00",
		Version:      Version,
	}
}

func writeError(c *fiber.Ctx, parseID string, status int, msg string) error {
	return c.Status(status).JSON(failureResponse(parseID, msg))
}

// emptyNotNil keeps warnings serializing as [] instead of null.
func emptyNotNil(w []string) []string {
	if w == nil {
		return []string{}
	}
	return w
}
