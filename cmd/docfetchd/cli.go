package main

import (
	"context"
	"io"
	"time"

	"github.com/docfetchd/docfetchd"
)

// Dependencies holds every wired service a command needs to run. It is
// bound into Kong's parser so each command's Run method can request it
// as a parameter.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Jobs   docfetchd.JobManager
	Search docfetchd.SearchCoordinator

	// PollInterval overrides how often waitForJob checks status.
	// Defaults to pollInterval when zero; tests set it small.
	PollInterval time.Duration
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl  CrawlCmd  `cmd:"" help:"Crawl a site or render JavaScript pages and index the results"`
	Repo   RepoCmd   `cmd:"" help:"Clone a source repository's documentation subtree"`
	Status StatusCmd `cmd:"" help:"Show a job's current status"`
	Cancel CancelCmd `cmd:"" help:"Cancel a running job"`
	Search SearchCmd `cmd:"" help:"Scan and extract matching content from a job's index"`
}

// CrawlCmd is the "crawl" subcommand: submits a web or browser-render job.
type CrawlCmd struct {
	URL     string `arg:"" help:"Start URL"`
	ID      string `short:"i" help:"Job id (generated if omitted)"`
	Depth   int    `short:"d" default:"3" help:"Maximum link-following depth"`
	Force   bool   `short:"f" help:"Re-fetch URLs already present on disk"`
	Browser bool   `short:"b" help:"Render pages with headless Chrome instead of plain HTTP"`
	Preview bool   `short:"p" help:"Print the job id and return without waiting for completion"`
}

// RepoCmd is the "repo" subcommand: submits a repo acquisition job.
type RepoCmd struct {
	URL        string `arg:"" help:"Repository URL"`
	ID         string `short:"i" help:"Job id (generated if omitted)"`
	DocSubpath string `short:"s" help:"Subdirectory within the repo to copy"`
	Force      bool   `short:"f" help:"Overwrite files already present on disk"`
	Preview    bool   `short:"p" help:"Print the job id and return without waiting for completion"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	ID string `arg:"" help:"Job id"`
}

// CancelCmd is the "cancel" subcommand.
type CancelCmd struct {
	ID string `arg:"" help:"Job id"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	JobID           string   `arg:"" help:"Job id to search within"`
	Selector        string   `arg:"" help:"CSS selector to extract text from"`
	ScanKeywords    []string `short:"k" name:"keyword" help:"Keyword required in a page's full text (repeatable, all must match)"`
	ExtractKeywords []string `short:"e" name:"extract-keyword" help:"Keyword required in an extracted fragment (repeatable, all must match)"`
}
