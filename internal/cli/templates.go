package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reputable-tech/memory-bank/internal/clipboard"
	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/models"
	"github.com/reputable-tech/memory-bank/internal/renderer"
	"github.com/reputable-tech/memory-bank/internal/service"
	"github.com/reputable-tech/memory-bank/internal/storage"
	"github.com/reputable-tech/memory-bank/internal/validation"
)

func (c *CLI) newListCommand() *cobra.Command {
	var domain, templateType, query, format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List templates of the general library or a domain",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := validation.ListParams{
				Type:  validation.StripControl(templateType),
				Query: validation.StripControl(query),
			}
			if err := validation.ValidateFormat(format); err != nil {
				return err
			}

			criteria := storage.Criteria{Type: params.Type, Query: params.Query}
			ctx := cmd.Context()

			var templates []models.TemplateSummary
			heading := "Memory Bank library"
			if domain != "" {
				d, list, err := c.service.ListDomainTemplates(ctx, domain, criteria)
				if err != nil {
					return err
				}
				templates = list
				heading = d.Name
			} else {
				list, err := c.service.ListTemplates(ctx, criteria)
				if err != nil {
					return err
				}
				templates = list
			}

			return writeTemplates(cmd.OutOrStdout(), heading, templates, format)
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain library to list")
	cmd.Flags().StringVarP(&templateType, "type", "t", "", "keep only this memory type")
	cmd.Flags().StringVarP(&query, "query", "q", "", "keep templates whose title or description contains this text")
	cmd.Flags().StringVarP(&format, "format", "f", validation.FormatTable, "output format (table, json)")

	return cmd
}

func (c *CLI) newShowCommand() *cobra.Command {
	var domain string
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a template rendered for the terminal",
		Args:  exactlyOneSlug,
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := c.loadTemplate(cmd.Context(), domain, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				_, err := fmt.Fprint(out, template.Content)
				return err
			}

			printTitle(out, template.Title)
			printDim(out, "%s · %s priority · %s scope", template.Type, template.Priority, template.Scope)
			printDim(out, "%s", template.Description)

			rendered, err := renderer.RenderTerminal(template.Content, width)
			if err != nil {
				c.logger.Debug("terminal rendering failed, printing markdown")
				rendered = template.Content
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain library the template belongs to")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown without rendering")
	cmd.Flags().IntVarP(&width, "width", "w", 80, "word wrap width")

	return cmd
}

func (c *CLI) newCopyCommand() *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "copy <slug>",
		Short: "Copy template content to the clipboard",
		Args:  exactlyOneSlug,
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := c.loadTemplate(cmd.Context(), domain, args[0])
			if err != nil {
				return err
			}

			message, err := clipboard.CopyWithFallback(template.Content)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "%s (%s)", message, template.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain library the template belongs to")
	return cmd
}

func (c *CLI) newExportCommand() *cobra.Command {
	var domain, output string

	cmd := &cobra.Command{
		Use:   "export <slug>",
		Short: "Write a template's markdown to stdout or a file",
		Args:  exactlyOneSlug,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, body, err := c.service.Export(cmd.Context(), service.ParseLibrary(domain), args[0])
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(body)
				return err
			}

			if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
				output = filepath.Join(output, filename)
			}
			if err := os.WriteFile(output, body, 0644); err != nil {
				return errors.Wrap(err, errors.ErrCodeExportFailed, "Failed to export template.").
					WithContext("path", output)
			}
			printSuccess(cmd.OutOrStdout(), "Exported %s to %s", args[0], output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain library the template belongs to")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default stdout)")
	return cmd
}

func (c *CLI) newSearchCommand() *cobra.Command {
	var domain, format string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Fuzzy search templates by title, description, slug and type",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := validation.SearchParams{
				Query:  validation.SanitizeString(strings.Join(args, " ")),
				Domain: validation.SanitizeString(domain),
			}
			if err := params.Validate(); err != nil {
				return validation.ToAppError(err)
			}
			if err := validation.ValidateFormat(format); err != nil {
				return err
			}

			results, err := c.service.Search(cmd.Context(), params.Query, params.Domain)
			if err != nil {
				return err
			}

			heading := fmt.Sprintf("Results for %q", params.Query)
			return writeTemplates(cmd.OutOrStdout(), heading, results, format)
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "search a domain library instead of the general library")
	cmd.Flags().StringVarP(&format, "format", "f", validation.FormatTable, "output format (table, json)")
	return cmd
}

// loadTemplate fetches a template from the general library or the named domain
func (c *CLI) loadTemplate(ctx context.Context, domain, slug string) (*models.Template, error) {
	if domain == "" {
		return c.service.GetTemplate(ctx, slug)
	}
	_, template, err := c.service.GetDomainTemplate(ctx, domain, slug)
	return template, err
}
