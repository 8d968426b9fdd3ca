package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/lemu/seamless-sea-sub000/modules/chartering/presentation/viewmodels"
	"github.com/lemu/seamless-sea-sub000/pkg/gridstate"
	"github.com/lemu/seamless-sea-sub000/pkg/metrics"
)

type ExportFormat string

const (
	FormatExcel ExportFormat = "xlsx"
	FormatCSV   ExportFormat = "csv"
	FormatPDF   ExportFormat = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportResult is a rendered file ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportConfig struct {
	MaxRows   int
	SheetName string
}

// ExportService renders the current grid view, filters applied, to a file.
// It pages through the same query the grid issues, so what exports is what
// the user sees.
type ExportService struct {
	queries *FixtureQueryService
	cfg     ExportConfig
}

func NewExportService(queries *FixtureQueryService, cfg ExportConfig) *ExportService {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 50000
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Fixtures"
	}
	return &ExportService{queries: queries, cfg: cfg}
}

// Export renders the caller's current view as a file. Column visibility and
// order follow the session's table state, so the file mirrors the grid.
func (s *ExportService) Export(ctx context.Context, organizationID uuid.UUID, req gridstate.QueryRequest, table gridstate.TableState, format ExportFormat) (*ExportResult, error) {
	switch format {
	case FormatExcel, FormatCSV:
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}

	rows, err := s.collectRows(ctx, organizationID, req)
	if err != nil {
		return nil, err
	}
	columns := selectColumns(table)

	stamp := time.Now().UTC().Format("2006-01-02")
	metrics.ExportRows.WithLabelValues(string(format)).Add(float64(len(rows)))

	if format == FormatCSV {
		data, err := renderCSV(columns, rows)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("fixtures-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	}

	data, err := s.renderExcel(columns, rows)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("fixtures-%s.xlsx", stamp),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func (s *ExportService) collectRows(ctx context.Context, organizationID uuid.UUID, req gridstate.QueryRequest) ([]viewmodels.FixtureRow, error) {
	req.Cursor = nil
	if req.Limit <= 0 {
		req.Limit = 500
	}

	var rows []viewmodels.FixtureRow
	for {
		page, err := s.queries.Query(ctx, organizationID, req)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Rows...)
		if len(rows) >= s.cfg.MaxRows {
			return rows[:s.cfg.MaxRows], nil
		}
		if page.NextCursor == nil {
			return rows, nil
		}
		req.Cursor = page.NextCursor
	}
}

type exportColumn struct {
	id    string
	title string
	width float64
	value func(r *viewmodels.FixtureRow) string
}

func exportColumns() []exportColumn {
	return []exportColumn{
		{"orderReference", "Order", 14, func(r *viewmodels.FixtureRow) string { return r.OrderReference }},
		{"stage", "Stage", 12, func(r *viewmodels.FixtureRow) string { return r.Stage }},
		{"status", "Status", 14, func(r *viewmodels.FixtureRow) string { return r.Status }},
		{"vessels", "Vessel", 20, func(r *viewmodels.FixtureRow) string { return r.VesselName }},
		{"owners", "Owner", 22, func(r *viewmodels.FixtureRow) string { return r.OwnerName }},
		{"charterers", "Charterer", 22, func(r *viewmodels.FixtureRow) string { return r.ChartererName }},
		{"cargoType", "Cargo", 14, func(r *viewmodels.FixtureRow) string { return r.CargoType }},
		{"cargoQuantity", "Qty (MT)", 12, func(r *viewmodels.FixtureRow) string { return decimalCell(r.CargoQuantityMT) }},
		{"loadPort", "Load port", 16, func(r *viewmodels.FixtureRow) string { return r.LoadPort }},
		{"dischargePort", "Discharge port", 16, func(r *viewmodels.FixtureRow) string { return r.DischargePort }},
		{"laycanFrom", "Laycan from", 13, func(r *viewmodels.FixtureRow) string { return dateCell(r.LaycanFrom) }},
		{"laycanTo", "Laycan to", 13, func(r *viewmodels.FixtureRow) string { return dateCell(r.LaycanTo) }},
		{"freightRate", "Freight", 12, func(r *viewmodels.FixtureRow) string { return decimalCell(r.FreightRate) }},
		{"demurrageRate", "Demurrage", 12, func(r *viewmodels.FixtureRow) string { return decimalCell(r.DemurrageRate) }},
		{"freightSavingsPct", "Freight savings %", 15, func(r *viewmodels.FixtureRow) string { return decimalCell(r.FreightSavingsPct) }},
		{"freightVsMarketPct", "Vs market %", 13, func(r *viewmodels.FixtureRow) string { return decimalCell(r.FreightVsMarketPct) }},
		{"approvalStatus", "Approval", 14, func(r *viewmodels.FixtureRow) string { return r.ApprovalStatus }},
		{"signatureStatus", "Signature", 14, func(r *viewmodels.FixtureRow) string { return r.SignatureStatus }},
		{"daysToWorkingCopy", "Days to WC", 11, func(r *viewmodels.FixtureRow) string { return intCell(r.DaysToWorkingCopy) }},
		{"daysWorkingCopyToFinal", "WC to final", 11, func(r *viewmodels.FixtureRow) string { return intCell(r.DaysWorkingCopyToFinal) }},
		{"daysFinalToFullySigned", "Final to signed", 13, func(r *viewmodels.FixtureRow) string { return intCell(r.DaysFinalToFullySigned) }},
		{"createdDate", "Created", 13, func(r *viewmodels.FixtureRow) string { return r.CreatedAt.Format("2006-01-02") }},
	}
}

// selectColumns applies the table state to the catalog: hidden columns are
// dropped, columns named in ColumnOrder lead in that order, the rest keep
// catalog order.
func selectColumns(table gridstate.TableState) []exportColumn {
	catalog := exportColumns()
	visible := make([]exportColumn, 0, len(catalog))
	index := make(map[string]int, len(catalog))
	for _, c := range catalog {
		if shown, ok := table.ColumnVisibility[c.id]; ok && !shown {
			continue
		}
		index[c.id] = len(visible)
		visible = append(visible, c)
	}
	if len(table.ColumnOrder) == 0 {
		return visible
	}

	ordered := make([]exportColumn, 0, len(visible))
	taken := make(map[string]bool, len(visible))
	for _, id := range table.ColumnOrder {
		if i, ok := index[id]; ok && !taken[id] {
			ordered = append(ordered, visible[i])
			taken[id] = true
		}
	}
	for _, c := range visible {
		if !taken[c.id] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

func decimalCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func renderCSV(columns []exportColumn, rows []viewmodels.FixtureRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.title
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	record := make([]string, len(columns))
	for i := range rows {
		for j, c := range columns {
			record[j] = c.value(&rows[i])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) renderExcel(columns []exportColumn, rows []viewmodels.FixtureRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := s.cfg.SheetName
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, c.width); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, c.title); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	// Keep the header visible while scrolling.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	for i := range rows {
		for j, c := range columns {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, c.value(&rows[i])); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
