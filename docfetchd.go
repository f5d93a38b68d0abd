// Package docfetchd provides a documentation-acquisition service: an
// asynchronous recursive web crawler, a two-phase content searcher scoped
// by crawl job, and a thin orchestration layer tying the two together with
// a source-repository acquirer.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in subdirectories
// named after their primary dependency (e.g. httpfetch/, rodfetch/,
// jsonlindex/, crawl/, search/).
package docfetchd
