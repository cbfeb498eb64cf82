// Command bookrec is a terminal front-end for the bookrec API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bookrec/internal/client"
	"bookrec/internal/config"
)

type cli struct {
	api    *client.Client
	out    io.Writer
	apiURL string
	token  string
}

func main() {
	config.LoadEnvFiles()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", userMessage(err))
		return 1
	}
	return 0
}

// userMessage keeps API failures to their short message.
func userMessage(err error) string {
	var e *client.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "bookrec",
		Short:         "Browse books, manage reading lists and ask for recommendations",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.apiURL == "" {
				return fmt.Errorf("API base URL is empty; set --api-url or BOOKREC_API_URL")
			}
			var opts []client.Option
			if c.token != "" {
				opts = append(opts, client.WithTokenSource(client.StaticToken(c.token)))
			}
			c.api = client.New(c.apiURL, opts...)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", os.Getenv("BOOKREC_API_URL"), "API base URL")
	root.PersistentFlags().StringVar(&c.token, "token", os.Getenv("BOOKREC_TOKEN"), "Bearer token (identity provider ID token)")

	root.AddCommand(c.booksCmd(), c.listsCmd(), c.recommendCmd())
	return root
}
