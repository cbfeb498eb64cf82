package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"bookrec/internal/app"
	"bookrec/internal/book"
	"bookrec/internal/config"
	"bookrec/internal/ingest"
	"bookrec/internal/logging"
	"bookrec/internal/platform/dynamo"
	"bookrec/internal/platform/openlibrary"
	"bookrec/internal/readinglist"
)

func main() {
	var (
		createTables = flag.Bool("create-tables", false, "Create the DynamoDB tables when missing (DynamoDB Local)")
		skipLists    = flag.Bool("skip-lists", false, "Only load the catalog")
		subjects     = flag.String("openlibrary-subjects", "", "Comma-separated Open Library subjects to add to the catalog")
		limit        = flag.Int("openlibrary-limit", 20, "Maximum Open Library books per subject")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("open store")
	}
	defer stores.Close()

	if *createTables {
		if stores.Dynamo == nil {
			logging.Fatal().Msg("-create-tables only applies to the dynamodb backend; run cmd/migrate for postgres")
		}
		if err := dynamo.EnsureTables(ctx, stores.Dynamo, cfg.Store.BooksTable, cfg.Store.ReadingListsTable, cfg.Store.UserIndex); err != nil {
			logging.Fatal().Err(err).Msg("create tables")
		}
		logging.Info().Msg("tables ready")
	}

	if err := loadBooks(ctx, stores.Books, sampleBooks); err != nil {
		logging.Fatal().Err(err).Msg("load books")
	}
	if list := splitSubjects(*subjects); len(list) > 0 {
		ol := openlibrary.NewClient("bookrec-seed/1.0", 1, 3)
		res, err := ingest.NewService(ol, stores.Books, ingest.Config{Subjects: list, BooksPerSubject: *limit}).Run(ctx)
		if err != nil {
			logging.Fatal().Err(err).Msg("open library ingest")
		}
		logging.Info().
			Int("fetched", res.Fetched).
			Int("upserted", res.Upserted).
			Int("skipped", res.Skipped).
			Msg("open library ingest done")
	}
	if !*skipLists {
		if err := loadLists(ctx, readinglist.NewService(stores.Lists), sampleLists); err != nil {
			logging.Fatal().Err(err).Msg("load reading lists")
		}
	}
}

func loadBooks(ctx context.Context, repo book.Repository, books []book.Book) error {
	for _, b := range books {
		if err := repo.Put(ctx, b); err != nil {
			return err
		}
	}
	logging.Info().Int("count", len(books)).Msg("books loaded")
	return nil
}

func loadLists(ctx context.Context, svc *readinglist.Service, lists []sampleList) error {
	for _, l := range lists {
		created, err := svc.Create(ctx, l.userID, l.input)
		if err != nil {
			return err
		}
		logging.Info().
			Str("name", created.Name).
			Str("user_id", created.UserID).
			Int("books", len(created.BookIDs)).
			Msg("reading list loaded")
	}
	return nil
}

func splitSubjects(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
