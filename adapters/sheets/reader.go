package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"coordash/domain/report"
	"coordash/internal"
	"coordash/internal/errors"
	"coordash/ports"

	"github.com/xuri/excelize/v2"
)

// Formats reported in report.Table.Format
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
)

// Reader fetches published spreadsheet exports over HTTP
type Reader struct {
	config     ReaderConfig
	httpClient *http.Client
	logger     *internal.Logger
}

var _ ports.SheetSource = (*Reader)(nil)

// NewReader creates a reader with its own HTTP client
func NewReader(config ReaderConfig, logger *internal.Logger) *Reader {
	return NewReaderWithClient(&http.Client{Timeout: config.Timeout}, config, logger)
}

// NewReaderWithClient creates a reader around an existing HTTP client
func NewReaderWithClient(client *http.Client, config ReaderConfig, logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultReaderConfig().MaxBytes
	}
	return &Reader{config: config, httpClient: client, logger: logger}
}

// Fetch downloads sourceURL and decodes it into a report.Table. Failures are
// returned as AppErrors coded CONFIG_INVALID, TRANSPORT_ERROR, HTTP_STATUS or
// PARSE_ERROR. There are no retries.
func (r *Reader) Fetch(ctx context.Context, sourceURL string) (*report.Table, error) {
	if sourceURL == "" {
		return nil, errors.ConfigInvalid("Falta la URL del CSV en la configuración")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &errors.AppError{
			Code:    errors.CodeConfigInvalid,
			Message: "La URL del CSV no es válida",
			Cause:   err,
		}
	}
	if r.config.UserAgent != "" {
		req.Header.Set("User-Agent", r.config.UserAgent)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("[SheetReader] GET %s failed: %v", sourceURL, err)
		return nil, errors.TransportError("No se pudo conectar con la hoja de cálculo", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		r.logger.Warn("[SheetReader] GET %s returned status %d", sourceURL, resp.StatusCode)
		return nil, errors.HTTPStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.config.MaxBytes+1))
	if err != nil {
		return nil, errors.TransportError("Error leyendo la respuesta de la hoja de cálculo", err)
	}
	if int64(len(body)) > r.config.MaxBytes {
		return nil, errors.TransportError(
			"La respuesta de la hoja de cálculo es demasiado grande",
			fmt.Errorf("body exceeds %d bytes", r.config.MaxBytes),
		)
	}

	var table *report.Table
	if strings.Contains(resp.Header.Get("Content-Type"), "spreadsheetml") {
		table, err = ParseXLSX(body)
	} else {
		table, err = Parse(body)
	}
	if err != nil {
		r.logger.Warn("[SheetReader] decoding %s failed: %v", sourceURL, err)
		return nil, err
	}
	table.SourceURL = sourceURL
	table.FetchedAt = time.Now()

	r.logger.Debug("[SheetReader] %s: %d bytes, %d columns, %d rows (%s) in %.2fms",
		sourceURL, len(body), len(table.Headers), len(table.Rows), table.Format,
		float64(time.Since(start).Nanoseconds())/1e6)
	return table, nil
}

// Parse decodes a spreadsheet export. Bodies starting with the zip magic
// are read as XLSX, anything else as comma-separated text.
func Parse(data []byte) (*report.Table, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return ParseXLSX(data)
	}
	return ParseCSV(data)
}

// ParseCSV decodes comma-separated text whose first record is the header row
func ParseCSV(data []byte) (*report.Table, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ParseError("El CSV recibido no tiene un formato válido", err)
	}
	return processRows(FormatCSV, records), nil
}

// ParseXLSX decodes the first worksheet of an XLSX workbook
func ParseXLSX(data []byte) (*report.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.ParseError("El libro XLSX recibido no es válido", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ParseError("El libro XLSX no tiene hojas", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.ParseError(fmt.Sprintf("No se pudo leer la hoja %q", sheets[0]), err)
	}
	return processRows(FormatXLSX, rows), nil
}

// processRows turns the header record plus data records into a report.Table.
// Cells past the header width are dropped, short records just lack the
// trailing columns and blank records are skipped.
func processRows(format string, records [][]string) *report.Table {
	table := &report.Table{Format: format, Headers: []string{}, Rows: []report.RawRow{}}

	start := -1
	for i, record := range records {
		if !blankRecord(record) {
			start = i
			break
		}
	}
	if start < 0 {
		return table
	}

	table.Headers = append(table.Headers, records[start]...)
	for _, record := range records[start+1:] {
		if blankRecord(record) {
			continue
		}
		n := len(record)
		if n > len(table.Headers) {
			n = len(table.Headers)
		}
		row := make(report.RawRow, 0, n)
		for j := 0; j < n; j++ {
			row = append(row, report.Cell{Header: table.Headers[j], Value: record[j]})
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func blankRecord(record []string) bool {
	return len(record) == 0 || (len(record) == 1 && record[0] == "")
}
