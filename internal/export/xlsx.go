// Package export renders extraction results as spreadsheets.
package export

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/internal/invoice"
	"github.com/joseph-ayodele/invoice-extractor/internal/pipeline"
)

const (
	recordSheet = "Счет"
	pagesSheet  = "Страницы"
)

// Exporter produces XLSX workbooks.
type Exporter struct {
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

type row struct {
	label string
	value string
	money bool
}

// RecordXLSX returns a workbook with one label/value row per populated
// record field and, when report has pages, a per-page sheet.
func (e *Exporter) RecordXLSX(rec *invoice.InvoiceRecord, report *pipeline.Report) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("xlsx: nil record")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordSheet); err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return nil, err
	}
	headStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(recordSheet, "A1", "Поле")
	_ = f.SetCellValue(recordSheet, "B1", "Значение")
	_ = f.SetCellStyle(recordSheet, "A1", "B1", headStyle)

	rows := recordRows(rec)
	for i, r := range rows {
		n := i + 2
		_ = f.SetCellValue(recordSheet, cell(1, n), r.label)
		if r.money {
			if d, err := decimal.NewFromString(r.value); err == nil {
				_ = f.SetCellValue(recordSheet, cell(2, n), d.InexactFloat64())
				_ = f.SetCellStyle(recordSheet, cell(2, n), cell(2, n), moneyStyle)
				continue
			}
		}
		_ = f.SetCellValue(recordSheet, cell(2, n), r.value)
	}
	_ = f.SetColWidth(recordSheet, "A", "A", 32)
	_ = f.SetColWidth(recordSheet, "B", "B", 60)

	if report != nil && len(report.Pages) > 0 {
		if err := writePages(f, report, headStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	e.logger.Info("export.xlsx.ok", "rows", len(rows), "bytes", buf.Len())
	return buf.Bytes(), nil
}

func writePages(f *excelize.File, report *pipeline.Report, headStyle int) error {
	if _, err := f.NewSheet(pagesSheet); err != nil {
		return err
	}
	headers := []string{"Страница", "Источник", "Статус", "Символов", "Уверенность", "Ошибка"}
	for i, h := range headers {
		_ = f.SetCellValue(pagesSheet, cell(i+1, 1), h)
	}
	_ = f.SetCellStyle(pagesSheet, "A1", cell(len(headers), 1), headStyle)
	for i, p := range report.Pages {
		n := i + 2
		_ = f.SetCellValue(pagesSheet, cell(1, n), p.Index+1)
		_ = f.SetCellValue(pagesSheet, cell(2, n), string(p.Origin))
		_ = f.SetCellValue(pagesSheet, cell(3, n), string(p.Status))
		_ = f.SetCellValue(pagesSheet, cell(4, n), p.Chars)
		if p.Confidence > 0 {
			_ = f.SetCellValue(pagesSheet, cell(5, n), strconv.FormatFloat(float64(p.Confidence), 'f', 2, 32))
		}
		_ = f.SetCellValue(pagesSheet, cell(6, n), p.Error)
	}
	return nil
}

func recordRows(rec *invoice.InvoiceRecord) []row {
	var rows []row
	add := func(label, value string, money bool) {
		if value != "" {
			rows = append(rows, row{label: label, value: value, money: money})
		}
	}
	flag := func(label string, suspect bool) {
		if suspect {
			rows = append(rows, row{label: label, value: "да"})
		}
	}

	add("номер_счета", rec.Number, false)
	add("дата", rec.Date, false)
	add("сумма", rec.Amount, true)
	add("назначение_платежа", rec.Purpose, false)
	for _, p := range []struct {
		prefix string
		party  *invoice.PartyRecord
	}{{"плательщик", rec.Payer}, {"получатель", rec.Payee}} {
		if p.party == nil {
			continue
		}
		add(p.prefix+".наименование", p.party.Name, false)
		add(p.prefix+".ИНН", p.party.INN, false)
		flag(p.prefix+".ИНН_сомнительный", p.party.INNSuspect)
		add(p.prefix+".КПП", p.party.KPP, false)
	}
	for _, b := range []struct {
		prefix string
		bank   *invoice.BankDetails
	}{{"банк_получателя", rec.PayeeBank}, {"банк_плательщика", rec.PayerBank}} {
		if b.bank == nil {
			continue
		}
		add(b.prefix+".наименование", b.bank.Name, false)
		add(b.prefix+".БИК", b.bank.BIK, false)
		add(b.prefix+".р/с", b.bank.Account, false)
		flag(b.prefix+".р/с_сомнительный", b.bank.AccountSuspect)
		add(b.prefix+".к/с", b.bank.Corr, false)
		flag(b.prefix+".к/с_сомнительный", b.bank.CorrSuspect)
	}
	if a := rec.Additional; a != nil {
		add("валюта", a.Currency, false)
		add("НДС", a.VAT, true)
		add("сумма_прописью", a.AmountInWords, false)
		add("договор", a.Contract, false)
		add("срок_оплаты", a.DueDate, false)
	}
	return rows
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func strPtr(s string) *string { return &s }
