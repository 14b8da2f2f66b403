package backend

import (
	"fmt"

	"dompet/internal/config"
	gsheet "dompet/internal/sheets/google"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSpreadsheetTitle:   appConfig.GoogleSpreadsheetTitle,
		GoogleExpensesSheet:      appConfig.GoogleExpensesSheet,
		GoogleIncomesSheet:       appConfig.GoogleIncomesSheet,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		// AMQP is optional
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" && c.GoogleSpreadsheetTitle == "" {
			return fmt.Errorf("spreadsheet id or title is required for sheets backend")
		}
	}
	return nil
}

// GoogleConfig returns the spreadsheet settings for the Sheets client.
func (c Config) GoogleConfig() gsheet.Config {
	return gsheet.Config{
		SpreadsheetID:    c.GoogleSpreadsheetID,
		SpreadsheetTitle: c.GoogleSpreadsheetTitle,
		ExpensesSheet:    c.GoogleExpensesSheet,
		IncomesSheet:     c.GoogleIncomesSheet,
		CredentialsJSON:  c.GoogleServiceAccountJSON,
		CredentialsFile:  c.GoogleServiceAccountFile,
	}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := []BackendType{SQLiteBackend, SheetsBackend, MemoryBackend}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
