package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kapu/isv-directory/internal/app"
	"github.com/kapu/isv-directory/internal/domain"
	"github.com/spf13/cobra"
)

var (
	renderQuery string
	renderJSON  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the cards matching a query",
	Long: `Loads the profiles document and prints every card that matches --query,
in document order, with the same word budget the web page uses.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderQuery, "query", "q", "", "Case-insensitive substring to filter by")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "Print the view as JSON")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Source.FetchTimeout+30*time.Second)
	defer cancel()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	view := container.Directory.View(renderQuery)
	if renderJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else if err := writeView(cmd.OutOrStdout(), view); err != nil {
		return err
	}

	if view.Error != nil {
		return fmt.Errorf("%s: %s", view.Error.Title, view.Error.Message)
	}
	return nil
}

// writeView prints a view as plain text: the count label, then one block per
// card with its lines indented under the name.
func writeView(w io.Writer, view domain.DirectoryView) error {
	if view.Error != nil {
		_, err := fmt.Fprintf(w, "%s\n%s\n", view.Error.Title, view.Error.Message)
		return err
	}

	if _, err := fmt.Fprintln(w, view.CountLabel); err != nil {
		return err
	}
	for _, card := range view.Cards {
		if _, err := fmt.Fprintf(w, "\n%s\n", card.Name); err != nil {
			return err
		}
		for _, line := range card.Lines {
			if _, err := fmt.Fprintf(w, "  %s\n", line.Text()); err != nil {
				return err
			}
		}
		if card.TrimNotice != "" {
			if _, err := fmt.Fprintf(w, "  (%s)\n", card.TrimNotice); err != nil {
				return err
			}
		}
	}
	return nil
}
