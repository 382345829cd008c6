package xlsxclient

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Client reads and writes the clinic's xlsx workbooks. The provider roster
// arrives as a spreadsheet maintained by the office manager, and generated
// schedules ship back the same way.
type Client struct {
	logger *zap.Logger
}

// NewClient creates an xlsx client.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{logger: logger}
}

// GetRows returns the raw cell grid of one sheet of a workbook file.
func (c *Client) GetRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
