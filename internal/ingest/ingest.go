// Package ingest adds Open Library titles to the catalog.
package ingest

// Config bounds an ingest run.
type Config struct {
	Subjects []string
	// BooksPerSubject caps the search hits taken per subject.
	BooksPerSubject int
}

// Result counts what a run did.
type Result struct {
	Fetched  int
	Upserted int
	// Skipped counts hits without title or author, or whose ISBN is already cataloged.
	Skipped int
}
