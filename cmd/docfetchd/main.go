package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/docfetchd/docfetchd"
	"github.com/docfetchd/docfetchd/crawl"
	"github.com/docfetchd/docfetchd/extract"
	"github.com/docfetchd/docfetchd/gitacquire"
	"github.com/docfetchd/docfetchd/httpfetch"
	"github.com/docfetchd/docfetchd/jobmanager"
	"github.com/docfetchd/docfetchd/jsonlindex"
	"github.com/docfetchd/docfetchd/robots"
	"github.com/docfetchd/docfetchd/rodfetch"
	"github.com/docfetchd/docfetchd/scan"
	"github.com/docfetchd/docfetchd/search"
	docslog "github.com/docfetchd/docfetchd/slog"
	"github.com/docfetchd/docfetchd/urlkey"
)

const userAgent = "docfetchd/1.0 (+https://github.com/docfetchd/docfetchd)"

func main() {
	ctx := context.Background()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// DataDir holds both the index directory and the content directory.
	// Set before calling Run().
	DataDir string

	browserOnce    sync.Once
	browserManager *rodfetch.BrowserManager
	browserErr     error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{DataDir: defaultDataDir()}
}

// Close releases the headless browser, if one was launched.
func (m *Main) Close() error {
	if m.browserManager != nil {
		return m.browserManager.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	indexRoot := filepath.Join(m.DataDir, "index")
	contentRoot := filepath.Join(m.DataDir, "content")
	if err := os.MkdirAll(indexRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	if err := os.MkdirAll(contentRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}

	store := jsonlindex.NewStore(m.DataDir)
	resolver := &net.Resolver{}

	dispatcher := &jobmanager.Dispatcher{
		NewEngine:             m.engineFactory(store, contentRoot, resolver, logger),
		Acquirer:              gitacquire.New(store, contentRoot),
		DefaultDepth:          3,
		DefaultTimeoutHTTP:    30 * time.Second,
		DefaultTimeoutBrowser: 60 * time.Second,
		DefaultMaxBodySize:    20 << 20,
	}

	jobs := docslog.NewLoggingJobManager(jobmanager.New(dispatcher), logger)
	searchCoordinator := docslog.NewLoggingSearchCoordinator(
		search.New(store, scan.New(), extract.New()),
		logger,
	)

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Jobs:   jobs,
		Search: searchCoordinator,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docfetchd"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docfetchd --help' to see available commands")
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	defer m.Close()
	return kongCtx.Run(deps)
}

// engineFactory returns a jobmanager.EngineFactory that builds a fresh
// crawl.Engine per job, scoped to that job's content subdirectory. The
// browser fetcher's underlying Chrome process is launched lazily, on the
// first job that builds an engine, and reused by every job after that:
// every crawl can fall back to browser rendering on the JS-shell
// heuristic, not only jobs started with --browser.
func (m *Main) engineFactory(store docfetchd.IndexStore, contentRoot string, resolver urlkey.Resolver, logger *slog.Logger) jobmanager.EngineFactory {
	httpFetcher := httpfetch.New(userAgent)
	robotsPolicy := robots.New(userAgent)

	return func(jobID string) (docfetchd.Engine, error) {
		writer, err := store.Writer(context.Background(), jobID)
		if err != nil {
			return nil, err
		}

		browserFetcher, err := m.browser(logger)
		if err != nil {
			return nil, err
		}

		engine := &crawl.Engine{
			HTTPFetcher:    httpFetcher,
			BrowserFetcher: browserFetcher,
			Robots:         robotsPolicy,
			Index:          writer,
			ContentRoot:    filepath.Join(contentRoot, jobID),
			Resolver:       resolver,
		}
		return docslog.NewLoggingEngine(engine, logger), nil
	}
}

func (m *Main) browser(logger *slog.Logger) (docfetchd.Fetcher, error) {
	m.browserOnce.Do(func() {
		logger.Info("launching headless browser")
		m.browserManager, m.browserErr = rodfetch.NewBrowserManager()
	})
	if m.browserErr != nil {
		return nil, fmt.Errorf("failed to start browser: %w", m.browserErr)
	}
	return rodfetch.New(m.browserManager), nil
}

func defaultDataDir() string {
	if path := os.Getenv("DOCFETCHD_DATA"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docfetchd"
	}
	return filepath.Join(home, ".docfetchd")
}
