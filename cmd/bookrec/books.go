package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bookrec/internal/book"
)

func (c *cli) booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse the catalog",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every book in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := c.api.GetBooks(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tRATING")
			for _, b := range books {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\n", b.ID, b.Title, b.Author, b.Genre, b.Rating)
			}
			return tw.Flush()
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.api.GetBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if b == nil {
				return errors.New("Book not found")
			}
			printBook(c, b)
			return nil
		},
	}

	var in book.CreateInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a book to the catalog (admin group only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.api.CreateBook(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created book %s\n", b.ID)
			return nil
		},
	}
	f := create.Flags()
	f.StringVar(&in.Title, "title", "", "Title")
	f.StringVar(&in.Author, "author", "", "Author")
	f.StringVar(&in.Genre, "genre", "", "Genre")
	f.StringVar(&in.Description, "description", "", "Description")
	f.StringVar(&in.CoverImage, "cover-image", "", "Cover image URL")
	f.Float64Var(&in.Rating, "rating", 0, "Rating between 0 and 5")
	f.IntVar(&in.PublishedYear, "year", 0, "Year of publication")
	f.StringVar(&in.ISBN, "isbn", "", "ISBN-10 or ISBN-13")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("author")

	cmd.AddCommand(list, get, create)
	return cmd
}

func printBook(c *cli, b *book.Book) {
	fmt.Fprintf(c.out, "%s by %s\n", b.Title, b.Author)
	fmt.Fprintf(c.out, "  id:        %s\n", b.ID)
	fmt.Fprintf(c.out, "  genre:     %s\n", b.Genre)
	fmt.Fprintf(c.out, "  published: %d\n", b.PublishedYear)
	fmt.Fprintf(c.out, "  rating:    %.1f\n", b.Rating)
	if b.ISBN != "" {
		fmt.Fprintf(c.out, "  isbn:      %s\n", b.ISBN)
	}
	if b.Description != "" {
		fmt.Fprintf(c.out, "\n%s\n", b.Description)
	}
}
