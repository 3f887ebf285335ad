package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/renderer"
	"github.com/reputable-tech/memory-bank/internal/service"
	"github.com/reputable-tech/memory-bank/internal/slug"
	"github.com/reputable-tech/memory-bank/internal/validation"
)

func (c *CLI) newDomainsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "domains",
		Aliases: []string{"libraries", "banks"},
		Short:   "List domain libraries with their template counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateFormat(format); err != nil {
				return err
			}
			domains, err := c.service.ListDomains(cmd.Context())
			if err != nil {
				return err
			}
			return writeDomains(cmd.OutOrStdout(), domains, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", validation.FormatTable, "output format (table, json)")
	return cmd
}

func (c *CLI) newGuideCommand() *cobra.Command {
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "guide [step]",
		Short: "List the guide steps or read one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				printTitle(out, "Memory Bank guide")
				for _, step := range c.service.GuideSteps() {
					fmt.Fprintf(out, "  %s  %-24s %s\n", step.Step, step.Slug, step.Title)
					printDim(out, "      %s", step.Description)
				}
				return nil
			}

			page, err := c.service.GetGuidePage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printTitle(out, fmt.Sprintf("%s. %s (%s/%d)", page.Step, page.Title, page.Step, page.Total))
			if page.Content == "" {
				printWarning(out, "This step has no content yet.")
			} else if raw {
				fmt.Fprint(out, page.Content)
			} else {
				rendered, err := renderer.RenderTerminal(page.Content, width)
				if err != nil {
					rendered = page.Content
				}
				fmt.Fprint(out, rendered)
			}

			var nav []string
			if page.Prev != nil {
				nav = append(nav, "← "+page.Prev.Slug)
			}
			if page.Next != nil {
				nav = append(nav, page.Next.Slug+" →")
			}
			if len(nav) > 0 {
				printDim(out, "%s", strings.Join(nav, "   "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown without rendering")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "word wrap width")
	return cmd
}

func newSlugifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "slugify <text...>",
		Short:       "Convert text to a URL-safe slug",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := slug.Slugify(strings.Join(args, " "))
			if s == "" {
				return errors.ValidationError("text contains no letters or digits")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			titleColor.Fprint(out, "memory-bank version: ")
			fmt.Fprintln(out, service.Version)
			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, runtime.Version())
		},
	}
}
