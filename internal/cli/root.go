// Package cli is the krmotors command-line storefront. The cart and the
// session live in a local SQLite file between invocations.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format    string // "json" | "text"
	StatePath string
	APIURL    string
	Timeout   time.Duration
	Verbose   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

const defaultAPIURL = "http://localhost:5000"

// NewRootCommand creates the root command of the krmotors CLI.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "krmotors",
		Short:         "KR Motors storefront",
		Long:          "Browse the KR Motors catalog, manage a cart and place orders from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.StatePath, "state", defaultStatePath(), "path of the local state database")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", envOr("BACKEND_URL", defaultAPIURL), "backend API base URL")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "backend request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log diagnostics to stderr")

	cmd.AddCommand(newProductsCommand(opts))
	cmd.AddCommand(newProductCommand(opts))
	cmd.AddCommand(newCartCommand(opts))
	cmd.AddCommand(newCheckoutCommand(opts))
	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newWhoamiCommand(opts))
	cmd.AddCommand(newPasswordCommand(opts))
	cmd.AddCommand(newAdminCommand(opts))

	return cmd
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return ExitSuccess
	}

	format := opts.Format
	if !slices.Contains(ValidFormats, format) {
		format = "text"
	}
	f := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr}
	_ = f.Error(err)
	return GetExitCode(err)
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "krmotors.db"
	}
	return filepath.Join(home, ".krmotors", "state.db")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
