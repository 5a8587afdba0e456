package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/config"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/engine"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/extractor"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/models"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/profile"
	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/writer"
)

var (
	convertBank   string
	convertOutput string
	convertHeader bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <statement.pdf> [statement2.pdf ...]",
	Short: "Convert statement PDFs to CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := cfg.Logger()
		parser := engine.New(engine.WithLogger(log))

		var prof *profile.Profile
		if convertBank != "" {
			prof = profile.ByKey(strings.ToLower(convertBank))
			if prof == nil {
				return errors.Errorf("unknown bank %q; use capitec, fnb, absa, standardbank, nedbank or generic", convertBank)
			}
		}

		for _, inputPath := range args {
			if err := convertFile(parser, prof, inputPath); err != nil {
				return errors.Wrapf(err, "convert %s", inputPath)
			}
		}
		return nil
	},
}

func convertFile(parser *engine.Parser, prof *profile.Profile, inputPath string) error {
	if !strings.EqualFold(filepath.Ext(inputPath), ".pdf") {
		return errors.Errorf("expected a .pdf file, got %q", filepath.Ext(inputPath))
	}

	pages, err := extractor.ExtractText(inputPath)
	if err != nil {
		return err
	}
	rawText := strings.Join(pages, "\n")
	sourceFile := filepath.Base(inputPath)

	var result *models.ParseResult
	if prof != nil {
		result, err = parser.ParseWithProfile(prof, rawText, sourceFile)
	} else {
		result, err = parser.Parse(rawText, sourceFile)
	}
	if err != nil {
		return err
	}

	outPath := convertOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	cw := &writer.CSVWriter{IncludeHeader: convertHeader}
	if err := cw.WriteToFile(outPath, result); err != nil {
		return err
	}

	fmt.Printf("%s: %d transaction(s) -> %s\n", sourceFile, len(result.Transactions), outPath)
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
	if !result.Report.Valid {
		fmt.Println("  ledger did not fully reconcile; review before trusting")
	}
	return nil
}

func init() {
	convertCmd.Flags().StringVar(&convertBank, "bank", "", "bank profile: capitec, fnb, absa, standardbank, nedbank (auto-detected if omitted)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output CSV path (defaults to the input name with .csv)")
	convertCmd.Flags().BoolVar(&convertHeader, "header", true, "include statement metadata header rows")
}
