package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dompet/internal/core"
	ports "dompet/internal/sheets"

	gsheet "google.golang.org/api/sheets/v4"
)

func (c *Client) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.ValidateFields(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.expensesSheet, expenseColumns, expenseCells(e))
}

func (c *Client) AppendIncome(ctx context.Context, i core.Income) (string, error) {
	if err := i.ValidateFields(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.incomesSheet, incomeColumns, incomeCells(i))
}

// appendRow writes cells under their header columns as a new last row.
func (c *Client) appendRow(ctx context.Context, sheet string, required []string, cells map[string]any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	headerRng := fmt.Sprintf("%s!1:1", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, headerRng).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read header of %s: %w", sheet, err)
	}
	var header []string
	if len(resp.Values) > 0 {
		header = toStrings(resp.Values[0])
	}
	cols, err := headerIndex(header, required)
	if err != nil {
		return "", fmt.Errorf("sheet %s: %w", sheet, err)
	}

	width := 0
	for _, idx := range cols {
		width = max(width, idx+1)
	}
	row := make([]any, width)
	for i := range row {
		row[i] = ""
	}
	for name, v := range cells {
		row[cols[name]] = v
	}

	rng := fmt.Sprintf("%s!A:%s", sheet, columnLetter(width))
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	out, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	ref := rng
	if out.Updates != nil && out.Updates.UpdatedRange != "" {
		ref = out.Updates.UpdatedRange
	}
	return ref, nil
}

func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, cols, err := c.readRecords(ctx, c.expensesSheet, expenseColumns)
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(rows))
	for i, row := range rows {
		d, ok := cellDate(cellAt(row, cols["Tanggal"]))
		if !ok {
			continue
		}
		out = append(out, core.Expense{
			Row:    i + 2,
			Date:   d,
			Method: cellString(cellAt(row, cols["Metode"])),
			Amount: core.Money{Rupiah: cellInt(cellAt(row, cols["Nominal"]))},
			Note:   cellString(cellAt(row, cols["Catatan"])),
		})
	}
	return out, nil
}

func (c *Client) ListIncomes(ctx context.Context) ([]core.Income, error) {
	rows, cols, err := c.readRecords(ctx, c.incomesSheet, incomeColumns)
	if err != nil {
		return nil, err
	}
	out := make([]core.Income, 0, len(rows))
	for i, row := range rows {
		d, ok := cellDate(cellAt(row, cols["Tanggal"]))
		if !ok {
			continue
		}
		out = append(out, core.Income{
			Row:     i + 2,
			Date:    d,
			Cost:    core.Money{Rupiah: cellInt(cellAt(row, cols["Modal"]))},
			Sale:    core.Money{Rupiah: cellInt(cellAt(row, cols["Jual"]))},
			Channel: cellString(cellAt(row, cols["Channel"])),
			Note:    cellString(cellAt(row, cols["Catatan"])),
		})
	}
	return out, nil
}

// readRecords returns the data rows below the header together with the
// column index of each required header.
func (c *Client) readRecords(ctx context.Context, sheet string, required []string) ([][]any, map[string]int, error) {
	if c.svc == nil {
		return nil, nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}
	cols, err := headerIndex(toStrings(resp.Values[0]), required)
	if err != nil {
		return nil, nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	return resp.Values[1:], cols, nil
}

func (c *Client) DeleteExpense(ctx context.Context, row int) error {
	return c.deleteRow(ctx, c.expensesSheet, row)
}

func (c *Client) DeleteIncome(ctx context.Context, row int) error {
	return c.deleteRow(ctx, c.incomesSheet, row)
}

// deleteRow removes a 1-based sheet row. The header row cannot be deleted.
func (c *Client) deleteRow(ctx context.Context, sheet string, row int) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if row < 2 {
		return ports.ErrRowNotFound
	}
	used, err := c.usedRows(ctx, sheet)
	if err != nil {
		return err
	}
	if row > used {
		return ports.ErrRowNotFound
	}
	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(row - 1),
					EndIndex:        int64(row),
					ForceSendFields: []string{"SheetId"},
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %s: %w", row, sheet, err)
	}
	slog.InfoContext(ctx, "Deleted sheet row", "sheet", sheet, "row", row)
	return nil
}

// usedRows returns the number of the last row holding a value in any
// column, so a trailing row with a blank first cell stays deletable.
func (c *Client) usedRows(ctx context.Context, sheet string) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", sheet, err)
	}
	return len(resp.Values), nil
}

func (c *Client) sheetID(ctx context.Context, sheet string) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found", sheet)
}

func (c *Client) DeleteMatchingExpense(ctx context.Context, e core.Expense) error {
	list, err := c.ListExpenses(ctx)
	if err != nil {
		return err
	}
	for _, x := range list {
		if ports.SameExpense(x, e) {
			return c.DeleteExpense(ctx, x.Row)
		}
	}
	return ports.ErrRowNotFound
}

func (c *Client) DeleteMatchingIncome(ctx context.Context, i core.Income) error {
	list, err := c.ListIncomes(ctx)
	if err != nil {
		return err
	}
	for _, x := range list {
		if ports.SameIncome(x, i) {
			return c.DeleteIncome(ctx, x.Row)
		}
	}
	return ports.ErrRowNotFound
}
