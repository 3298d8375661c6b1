package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"raisingate/adapters/tabular"
	"raisingate/internal"
	"raisingate/internal/errors"
)

// Options configures a Fetcher
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// DataPath is a gjson path to the record array of a JSON response.
	// JSON responses are converted to CSV; other bodies are saved verbatim.
	DataPath string
}

// DefaultOptions returns the download defaults
func DefaultOptions() Options {
	return Options{Timeout: 30 * time.Second, UserAgent: "raisingate/1.0"}
}

// Result describes what was acquired
type Result struct {
	Source string `json:"source"`
	Output string `json:"output"`
	Remote bool   `json:"remote"`
	Bytes  int64  `json:"bytes"`
	Rows   int    `json:"rows"` // -1 when the body was saved without parsing
}

// Fetcher copies a dataset from a URL or a local table into a CSV file
type Fetcher struct {
	options    Options
	httpClient *http.Client
	logger     *internal.Logger
}

// NewFetcher creates a fetcher
func NewFetcher(options Options) *Fetcher {
	return &Fetcher{
		options:    options,
		httpClient: &http.Client{Timeout: options.Timeout},
		logger:     internal.DefaultLogger,
	}
}

// WithLogger overrides the fetcher's logger
func (f *Fetcher) WithLogger(logger *internal.Logger) *Fetcher {
	f.logger = logger
	return f
}

// IsURL reports whether source should be downloaded rather than read from disk
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Acquire downloads source when it is an http(s) URL, otherwise loads the
// local CSV or XLSX table and rewrites it as CSV without an index column.
// Parent directories of output are created.
func (f *Fetcher) Acquire(ctx context.Context, source, output string) (*Result, error) {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory for %s", output)
	}
	if IsURL(source) {
		return f.download(ctx, source, output)
	}
	return f.copyLocal(source, output)
}

func (f *Fetcher) copyLocal(source, output string) (*Result, error) {
	f.logger.Info("[Acquire] Reading data from %s", source)
	ds, err := tabular.NewDataReader(source, tabular.DefaultReaderConfig()).WithLogger(f.logger).Load()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrapf(err, "failed to read %s", source))
	}
	if err := tabular.SaveCSV(output, ds); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", output)
	}
	info, err := os.Stat(output)
	if err != nil {
		return nil, err
	}
	f.logger.Info("[Acquire] Data copied to %s", output)
	return &Result{Source: source, Output: output, Bytes: info.Size(), Rows: ds.RowCount()}, nil
}

func (f *Fetcher) download(ctx context.Context, url, output string) (*Result, error) {
	f.logger.Info("[Acquire] Downloading data from %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "failed to build request"))
	}
	if f.options.UserAgent != "" {
		req.Header.Set("User-Agent", f.options.UserAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("download", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.ExternalServiceError("download", fmt.Errorf("%s returned status %d", url, resp.StatusCode))
	}

	if f.options.DataPath != "" || strings.Contains(resp.Header.Get("Content-Type"), "json") {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.ExternalServiceError("download", err)
		}
		return f.saveJSON(url, output, body)
	}

	out, err := os.Create(output)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", output)
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save %s", output)
	}

	f.logger.Info("[Acquire] Data downloaded and saved to %s (%d bytes)", output, n)
	return &Result{Source: url, Output: output, Remote: true, Bytes: n, Rows: -1}, nil
}

func (f *Fetcher) saveJSON(url, output string, body []byte) (*Result, error) {
	raw, err := Records(body, f.options.DataPath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeExternalService, err)
	}
	ds, err := tabular.FromRaw(raw, tabular.DefaultReaderConfig())
	if err != nil {
		return nil, err
	}
	if err := tabular.SaveCSV(output, ds); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", output)
	}
	info, err := os.Stat(output)
	if err != nil {
		return nil, err
	}
	f.logger.Info("[Acquire] %d JSON records from %s saved to %s", ds.RowCount(), url, output)
	return &Result{Source: url, Output: output, Remote: true, Bytes: info.Size(), Rows: ds.RowCount()}, nil
}
