// Package cli implements the memory-bank command line.
//
// Every subcommand shares one configuration, logger and service built in the
// root command's PersistentPreRunE. Output goes to the command's writers so
// tests can capture it.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reputable-tech/memory-bank/internal/config"
	"github.com/reputable-tech/memory-bank/internal/errors"
	"github.com/reputable-tech/memory-bank/internal/logging"
	"github.com/reputable-tech/memory-bank/internal/service"
)

// commands annotated with skipSetup run without loading configuration
const skipSetup = "skip-setup"

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
)

// CLI holds the state shared by all subcommands
type CLI struct {
	configPath string
	verbose    bool

	config       *config.Config
	logger       *zap.Logger
	service      *service.Service
	errorHandler *errors.CLIErrorHandler
}

// NewCLI creates a CLI with nothing loaded yet
func NewCLI() *CLI {
	return &CLI{}
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return NewCLI().RootCommand()
}

// RootCommand builds the command tree bound to c
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "memory-bank",
		Short: "Browse, read and export Memory Bank templates",
		Long: `memory-bank serves the Memory Bank template library.

Templates are markdown files with YAML front matter. The general library
and every domain library are read from disk on each request, so edits are
visible immediately.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./memory-bank.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging and detailed errors")

	root.AddCommand(
		c.newServeCommand(),
		c.newListCommand(),
		c.newShowCommand(),
		c.newCopyCommand(),
		c.newExportCommand(),
		c.newSearchCommand(),
		c.newDomainsCommand(),
		c.newGuideCommand(),
		c.newBrowseCommand(),
		newSlugifyCommand(),
		newVersionCommand(),
	)

	return root
}

// setup loads configuration and wires the logger and service
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  logging.Verbose(cfg.Log.Level, c.verbose),
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "Failed to create logger.")
	}

	c.config = cfg
	c.logger = logger
	c.service = service.FromConfig(cfg, logger)
	c.errorHandler = errors.NewCLIErrorHandler(logger, c.verbose)
	return nil
}

// FormatError renders err for the terminal. Errors raised by cobra itself
// (unknown commands, bad flags) are usage errors.
func (c *CLI) FormatError(err error) string {
	handler := c.errorHandler
	if handler == nil {
		handler = errors.NewCLIErrorHandler(nil, c.verbose)
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.ValidationError(err.Error())
	}
	return handler.FormatError(appErr)
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	c := NewCLI()
	root := c.RootCommand()

	err := root.Execute()
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if err != nil {
		errorColor.Fprintln(root.ErrOrStderr(), c.FormatError(err))
		return 1
	}
	return 0
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

func printWarning(w io.Writer, format string, args ...interface{}) {
	warnColor.Fprintf(w, format+"\n", args...)
}

func printTitle(w io.Writer, text string) {
	titleColor.Fprintln(w, text)
}

func printDim(w io.Writer, format string, args ...interface{}) {
	dimColor.Fprintf(w, format+"\n", args...)
}

// exactlyOneSlug rejects calls without a single slug argument
func exactlyOneSlug(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.ValidationError(fmt.Sprintf("%s requires exactly one template slug", cmd.Name()))
	}
	return nil
}
