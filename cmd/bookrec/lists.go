package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bookrec/internal/readinglist"
)

var errAlreadyInList = errors.New("Book is already in this list")

func (c *cli) listsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"reading-lists"},
		Short:   "Manage your reading lists",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show your reading lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := c.api.GetReadingLists(cmd.Context())
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				fmt.Fprintln(c.out, "No reading lists yet.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBOOKS\tUPDATED")
			for _, l := range lists {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.ID, l.Name, strings.Join(l.BookIDs, ","), l.UpdatedAt)
			}
			return tw.Flush()
		},
	}

	var in readinglist.CreateInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a reading list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.api.CreateReadingList(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created reading list %q (%s)\n", l.Name, l.ID)
			return nil
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "List name")
	create.Flags().StringVar(&in.Description, "description", "", "Description")
	create.Flags().StringSliceVar(&in.BookIDs, "book", nil, "Book id to include (repeatable)")
	_ = create.MarkFlagRequired("name")

	var (
		name, description string
		bookIDs           []string
	)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a reading list; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var up readinglist.UpdateInput
			if cmd.Flags().Changed("name") {
				up.Name = &name
			}
			if cmd.Flags().Changed("description") {
				up.Description = &description
			}
			if cmd.Flags().Changed("books") {
				up.BookIDs = &bookIDs
			}
			l, err := c.api.UpdateReadingList(cmd.Context(), args[0], up)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Updated reading list %q\n", l.Name)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "New name")
	update.Flags().StringVar(&description, "description", "", "New description")
	update.Flags().StringSliceVar(&bookIDs, "books", nil, "Replace the book ids")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reading list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.api.DeleteReadingList(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Reading list deleted")
			return nil
		},
	}

	addBook := &cobra.Command{
		Use:   "add-book <list-id> <book-id>",
		Short: "Append a book to one of your lists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, bookID := args[0], args[1]
			lists, err := c.api.GetReadingLists(cmd.Context())
			if err != nil {
				return err
			}
			idx := slices.IndexFunc(lists, func(l readinglist.ReadingList) bool { return l.ID == listID })
			if idx < 0 {
				return errors.New("Reading list not found")
			}
			ids := lists[idx].BookIDs
			if slices.Contains(ids, bookID) {
				return errAlreadyInList
			}
			ids = append(slices.Clone(ids), bookID)
			l, err := c.api.UpdateReadingList(cmd.Context(), listID, readinglist.UpdateInput{BookIDs: &ids})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Added book %s to %q\n", bookID, l.Name)
			return nil
		},
	}

	cmd.AddCommand(list, create, update, del, addBook)
	return cmd
}
