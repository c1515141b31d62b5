// Command reportrender renders a saved model report into the card fragment
// the portal shows, for checking prompt changes without calling a model.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/wolfman30/care-portal/internal/analysis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		variantName string
		placeholder bool
		imageURL    string
		asJSON      bool
		noWrap      bool
	)

	cmd := &cobra.Command{
		Use:   "reportrender [file|-]",
		Short: "Render an analysis report to HTML cards",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, ok := analysis.VariantByName(variantName)
			if !ok {
				return fmt.Errorf("unknown variant %q (want symptom or image)", variantName)
			}
			report, err := readReport(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			policy := analysis.EmptySectionsDrop
			if placeholder {
				policy = analysis.EmptySectionsPlaceholder
			}
			renderer := analysis.NewRenderer(variant, analysis.WithEmptySections(policy))
			res := renderer.Render(analysis.Input{Report: report, ImageURL: imageURL})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Blocks)
			}
			html := res.HTML
			if !noWrap {
				html = renderer.Wrap(res)
			}
			_, err = fmt.Fprintln(out, html)
			return err
		},
	}
	cmd.Flags().StringVarP(&variantName, "variant", "v", "symptom", "report variant: symptom|image")
	cmd.Flags().BoolVar(&placeholder, "placeholder", false, "render empty sections with placeholder text instead of dropping them")
	cmd.Flags().StringVar(&imageURL, "image", "", "image URL shown above the sections")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rendered blocks as JSON")
	cmd.Flags().BoolVar(&noWrap, "no-wrap", false, "omit the results container element")
	return cmd
}

func readReport(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read report: %w", err)
	}
	return string(data), nil
}
