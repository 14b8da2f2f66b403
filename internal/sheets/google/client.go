package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dompet/internal/core"
	ports "dompet/internal/sheets"

	gdrive "google.golang.org/api/drive/v3"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	DefaultExpensesSheet = "Expenses"
	DefaultIncomesSheet  = "Incomes"

	spreadsheetMime = "application/vnd.google-apps.spreadsheet"
)

// Config addresses one spreadsheet and its two worksheets.
// SpreadsheetID wins over SpreadsheetTitle when both are set.
type Config struct {
	SpreadsheetID    string
	SpreadsheetTitle string
	ExpensesSheet    string
	IncomesSheet     string

	// Service account credentials: inline JSON takes precedence over the file.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	incomesSheet  string
}

// Ensure interface conformance
var (
	_ ports.ExpenseWriter  = (*Client)(nil)
	_ ports.ExpenseLister  = (*Client)(nil)
	_ ports.ExpenseDeleter = (*Client)(nil)
	_ ports.IncomeWriter   = (*Client)(nil)
	_ ports.IncomeLister   = (*Client)(nil)
	_ ports.IncomeDeleter  = (*Client)(nil)
	_ ports.MatchDeleter   = (*Client)(nil)
)

// New connects to the Sheets API. When no explicit client options are passed,
// service account credentials from cfg are used. Passing options (an endpoint
// and WithoutAuthentication, for example) replaces credential loading.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" && strings.TrimSpace(cfg.SpreadsheetTitle) == "" {
		return nil, errors.New("missing spreadsheet id or title")
	}
	if len(opts) == 0 {
		credentialsJSON, err := loadCredentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{goption.WithCredentialsJSON(credentialsJSON)}
	}

	svc, err := gsheet.NewService(ctx, append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	id := strings.TrimSpace(cfg.SpreadsheetID)
	if id == "" {
		drv, err := gdrive.NewService(ctx, append(opts, goption.WithScopes(gdrive.DriveMetadataReadonlyScope))...)
		if err != nil {
			return nil, fmt.Errorf("create drive service: %w", err)
		}
		id, err = resolveSpreadsheetID(ctx, drv, cfg.SpreadsheetTitle)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		svc:           svc,
		spreadsheetID: id,
		expensesSheet: orDefault(cfg.ExpensesSheet, DefaultExpensesSheet),
		incomesSheet:  orDefault(cfg.IncomesSheet, DefaultIncomesSheet),
	}
	slog.InfoContext(ctx, "Google Sheets client ready",
		"spreadsheet_id", c.spreadsheetID,
		"expenses_sheet", c.expensesSheet,
		"incomes_sheet", c.incomesSheet)
	return c, nil
}

// loadCredentials reads the service account key from cfg, falling back to
// GOOGLE_APPLICATION_CREDENTIALS.
func loadCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials", "json_length", len(inline))
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", file, "size", len(b))
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// resolveSpreadsheetID finds a spreadsheet shared with the service account by its title.
func resolveSpreadsheetID(ctx context.Context, drv *gdrive.Service, title string) (string, error) {
	title = strings.TrimSpace(title)
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(title, "'", `\'`), spreadsheetMime)
	resp, err := drv.Files.List().Q(q).Fields("files(id, name)").PageSize(10).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("look up spreadsheet %q: %w", title, err)
	}
	if len(resp.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found or not shared with the service account", title)
	}
	if len(resp.Files) > 1 {
		slog.WarnContext(ctx, "Several spreadsheets share the title, using the first",
			"title", title, "matches", len(resp.Files))
	}
	return resp.Files[0].Id, nil
}

// SpreadsheetID returns the resolved spreadsheet id.
func (c *Client) SpreadsheetID() string { return c.spreadsheetID }

// Ping reads the spreadsheet metadata; used by the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ping spreadsheet: %w", err)
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// expenseColumns and incomeColumns are the header names of each worksheet.
var (
	expenseColumns = []string{"Tanggal", "Metode", "Nominal", "Catatan"}
	incomeColumns  = []string{"Tanggal", "Modal", "Jual", "Channel", "Catatan"}
)

func expenseCells(e core.Expense) map[string]any {
	return map[string]any{
		"Tanggal": e.Date.String(),
		"Metode":  guardFormula(e.Method),
		"Nominal": e.Amount.Rupiah,
		"Catatan": guardFormula(e.Note),
	}
}

func incomeCells(i core.Income) map[string]any {
	return map[string]any{
		"Tanggal": i.Date.String(),
		"Modal":   i.Cost.Rupiah,
		"Jual":    i.Sale.Rupiah,
		"Channel": guardFormula(i.Channel),
		"Catatan": guardFormula(i.Note),
	}
}
