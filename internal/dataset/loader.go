package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/config"
)

// Loader produces a dataset from a source location.
type Loader interface {
	Load(ctx context.Context, source string) (*Dataset, error)
}

// CSVLoader reads delimited text with a header row from a local path or an
// http(s) URL.
type CSVLoader struct {
	client     *http.Client
	delimiter  rune
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewCSVLoader creates a loader from dataset configuration.
func NewCSVLoader(cfg config.DatasetConfig, logger *zap.Logger) *CSVLoader {
	delimiter := ','
	if r := []rune(cfg.Delimiter); len(r) == 1 {
		delimiter = r[0]
	}
	return &CSVLoader{
		client:     &http.Client{Timeout: cfg.HTTPTimeout},
		delimiter:  delimiter,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
}

// Load opens source, parses it and returns the dataset. Every failure wraps
// ErrLoadFailed plus one of ErrSourceUnreachable, ErrMalformedTable,
// ErrMissingColumn or ErrParseFailed.
func (l *CSVLoader) Load(ctx context.Context, source string) (*Dataset, error) {
	start := time.Now()
	l.logger.Info("Loading dataset", zap.String("source", source))

	ds, err := l.load(ctx, source)
	elapsed := time.Since(start)
	if err != nil {
		observeLoadFailure(err, elapsed)
		l.logger.Error("Dataset load failed",
			zap.String("source", source),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, source, err)
	}

	observeLoadSuccess(ds, elapsed)
	l.logger.Info("Dataset loaded",
		zap.String("source", source),
		zap.Int("rows", ds.Len()),
		zap.Duration("elapsed", elapsed),
	)
	return ds, nil
}

func (l *CSVLoader) load(ctx context.Context, source string) (*Dataset, error) {
	body, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return l.Parse(body, source)
}

func (l *CSVLoader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if isRemote(source) {
		return l.fetch(ctx, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, err)
	}
	return f, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// fetch performs the GET, retrying once on a transient failure.
func (l *CSVLoader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	body, err := l.get(ctx, url)
	if err == nil || !isTransient(err) {
		return body, err
	}

	l.logger.Warn("Transient failure fetching dataset, retrying once",
		zap.String("url", url),
		zap.Duration("retry_delay", l.retryDelay),
		zap.Error(err),
	)
	select {
	case <-time.After(l.retryDelay):
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, ctx.Err())
	}
	return l.get(ctx, url)
}

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.code)
}

func (l *CSVLoader) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, statusError{code: resp.StatusCode})
	}
	return resp.Body, nil
}

// isTransient is true for transport errors and 5xx responses; context
// cancellation is never retried.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return true
}

// Parse reads a tabular stream into a dataset. It fails on the first
// malformed row or unparseable cell.
func (l *CSVLoader) Parse(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.delimiter
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input, no header row", ErrMalformedTable)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedTable, err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedTable, err)
		}

		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, columns, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	l.logger.Debug("Parsed dataset rows",
		zap.String("source", source),
		zap.Int("rows", len(records)),
		zap.Int("columns", len(header)),
	)
	return &Dataset{source: source, records: records}, nil
}

// indexColumns maps each required field to its header position.
// Header names are trimmed and unquoted; unknown columns are ignored.
func indexColumns(header []string) (map[Field]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.ReplaceAll(name, `"`, "")
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	columns := make(map[Field]int, len(requiredFields))
	var missing []string
	for _, f := range requiredFields {
		idx, ok := positions[string(f)]
		if !ok {
			missing = append(missing, string(f))
			continue
		}
		columns[f] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return columns, nil
}

func parseRow(row []string, columns map[Field]int, line int) (Record, error) {
	values := make(map[Field]any, len(columns))
	for _, f := range requiredFields {
		idx := columns[f]
		v, err := parseCell(f, row[idx])
		if err != nil {
			return Record{}, &ParseError{Line: line, Column: f, Value: row[idx], Err: err}
		}
		if v != nil {
			values[f] = v
		}
	}
	return Record{values: values}, nil
}
