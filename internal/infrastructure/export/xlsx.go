// Package export renders a contract analysis as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/docai-relay/internal/core/domain"
)

const (
	summarySheet     = "Summary"
	risksSheet       = "Risks"
	obligationsSheet = "Obligations"
)

func WriteContractAnalysis(w io.Writer, analysis domain.ContractAnalysis) error {
	f, err := buildWorkbook(analysis)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func SaveContractAnalysis(path string, analysis domain.ContractAnalysis) error {
	f, err := buildWorkbook(analysis)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(analysis domain.ContractAnalysis) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillWorkbook(f, analysis); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, analysis domain.ContractAnalysis) error {
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, sheet := range []string{risksSheet, obligationsSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	terms := analysis.KeyTerms
	summary := [][]any{
		{"Field", "Value"},
		{"Summary", analysis.Summary},
		{"Risk Level", string(analysis.RiskAssessment.RiskLevel)},
		{"Parties", strings.Join(terms.Parties, "; ")},
		{"Effective Date", terms.EffectiveDate},
		{"Expiration Date", terms.ExpirationDate},
		{"Total Value", terms.TotalValue},
		{"Payment Terms", terms.PaymentTerms},
		{"Termination Clause", terms.TerminationClause},
	}
	if err := writeSheet(f, summarySheet, summary, map[string]float64{"A": 20, "B": 80}); err != nil {
		return err
	}

	risks := [][]any{{"Type", "Detail"}}
	for _, factor := range analysis.RiskAssessment.RiskFactors {
		risks = append(risks, []any{"Risk Factor", factor})
	}
	for _, rec := range analysis.RiskAssessment.Recommendations {
		risks = append(risks, []any{"Recommendation", rec})
	}
	if err := writeSheet(f, risksSheet, risks, map[string]float64{"B": 80}); err != nil {
		return err
	}

	obligations := [][]any{{"Party", "Obligation"}}
	for _, party := range analysis.Obligations {
		for _, item := range party.Obligations {
			obligations = append(obligations, []any{party.Party, item})
		}
	}
	if err := writeSheet(f, obligationsSheet, obligations, map[string]float64{"A": 24, "B": 80}); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, widths map[string]float64) error {
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set %s column %s width: %w", sheet, col, err)
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("%s cell name: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
