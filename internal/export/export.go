// Package export grava o resultado de uma agregação como planilha (CSV ou XLSX)
// para download no painel.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Relatorio"

var ErrUnknownFormat = errors.New("formato de exportação desconhecido")

// Row é uma linha da planilha; cada seção do resultado vira um conjunto de linhas
type Row struct {
	Section  string `csv:"secao"`
	Period   string `csv:"periodo"`
	Date     string `csv:"data"`
	Key      string `csv:"chave"`
	Position string `csv:"posicao"`
	Total    string `csv:"total"`
	Count    string `csv:"quantidade"`
	Delta    string `csv:"variacao_pct"`
}

var headers = []string{"secao", "periodo", "data", "chave", "posicao", "total", "quantidade", "variacao_pct"}

func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename monta o nome do arquivo a partir do tipo e dos períodos consultados
func (f Format) Filename(result *domain.AggregationResult) string {
	name := string(result.Kind)
	if len(result.Periods) > 0 {
		name += "-" + strings.ReplaceAll(strings.ToLower(strings.Join(result.Periods, "-")), " ", "_")
	}
	return name + "." + string(f)
}

// Write grava o resultado no formato pedido
func Write(w io.Writer, format Format, result *domain.AggregationResult) error {
	rows := Rows(result)

	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatXLSX:
		return writeXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Rows achata o resultado: primeiro o total, depois cada seção preenchida na ordem
// em que o engine a devolve
func Rows(result *domain.AggregationResult) []Row {
	period := strings.Join(result.Periods, ", ")

	rows := []Row{{
		Section: "total",
		Period:  period,
		Total:   result.Total.StringFixed(2),
		Count:   strconv.Itoa(result.RecordCount),
		Delta:   deltaString(result.TotalDelta),
	}}

	for _, group := range result.Groups {
		rows = append(rows, Row{
			Section: "grupo",
			Period:  period,
			Key:     group.Key,
			Total:   group.Total.StringFixed(2),
			Count:   strconv.Itoa(group.Count),
		})
	}

	for _, ranked := range result.Ranking {
		rows = append(rows, Row{
			Section:  "ranking",
			Period:   period,
			Key:      ranked.Key,
			Position: strconv.Itoa(ranked.Position),
			Total:    ranked.Total.StringFixed(2),
			Count:    strconv.Itoa(ranked.Count),
		})
	}

	for _, daily := range result.Daily {
		rows = append(rows, Row{
			Section: "diario",
			Period:  period,
			Date:    daily.Date.Format(time.DateOnly),
			Key:     daily.Key,
			Total:   daily.Total.StringFixed(2),
		})
	}

	if report := result.Fortnight; report != nil {
		rows = append(rows,
			Row{Section: "quinzena", Period: report.Period, Key: "primeira", Total: report.Totals.First.StringFixed(2), Delta: deltaString(&report.FirstVsPrevious)},
			Row{Section: "quinzena", Period: report.Period, Key: "segunda", Total: report.Totals.Second.StringFixed(2), Delta: deltaString(&report.SecondVsPrevious)},
		)
		if report.Previous != nil {
			rows = append(rows,
				Row{Section: "quinzena", Period: report.PreviousPeriod, Key: "primeira", Total: report.Previous.First.StringFixed(2)},
				Row{Section: "quinzena", Period: report.PreviousPeriod, Key: "segunda", Total: report.Previous.Second.StringFixed(2)},
			)
		}
	}

	for _, delta := range result.Deltas {
		rows = append(rows, Row{
			Section: "variacao",
			Period:  period,
			Key:     delta.Key,
			Total:   delta.Current.StringFixed(2),
			Delta:   deltaString(&delta.Delta),
		})
	}

	for _, method := range result.PaymentMethods {
		rows = append(rows, Row{Section: "forma_pagamento", Period: period, Key: string(method)})
	}

	return rows
}

func deltaString(delta *domain.Delta) string {
	if delta == nil || !delta.Defined {
		return ""
	}
	return delta.Percent.StringFixed(2)
}

func writeCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("erro ao gerar CSV: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, rows []Row) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("erro ao preparar planilha: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := file.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Section, row.Period, row.Date, row.Key,
			numberOrBlank(row.Position), numberOrBlank(row.Total), numberOrBlank(row.Count), numberOrBlank(row.Delta),
		}
		if err := file.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("erro ao escrever linha %d: %w", i+2, err)
		}
	}

	if len(rows) > 0 {
		style, err := file.NewStyle(&excelize.Style{NumFmt: 4})
		if err != nil {
			return err
		}
		last := fmt.Sprintf("F%d", len(rows)+1)
		if err := file.SetCellStyle(sheetName, "F2", last, style); err != nil {
			return err
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("erro ao gerar XLSX: %w", err)
	}
	return nil
}

// numberOrBlank mantém células vazias vazias; números viram float para a planilha somar
func numberOrBlank(value string) interface{} {
	if value == "" {
		return ""
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return parsed
}
