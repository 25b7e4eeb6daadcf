// Package main provides the entry point for the bwexporter CLI tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nvinuesa/bwexporter/internal/convert"
	"github.com/nvinuesa/bwexporter/internal/export"
	"github.com/nvinuesa/bwexporter/internal/input"
)

// Exit codes.
const (
	exitOK            = 0
	exitUsage         = 1
	exitMalformed     = 2
	exitExportFailure = 3
)

type flags struct {
	password string
	folders  string
	ciphers  string
}

// newRootCmd builds the command. Output goes to stdout; the logger writes
// warnings to stderr.
func newRootCmd(stdout io.Writer, logger *zap.Logger) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "bwexporter",
		Short: "Create a password-protected Bitwarden JSON export",
		Long: `bwexporter converts folders and login credentials given as JSON arrays
into a password-protected encrypted JSON export that Bitwarden can import.

The export is written to stdout.

Examples:
  bwexporter -p "secret" \
    -f '[{"id":"00000000-0000-0000-0000-000000000001","name":"My Folder"}]' \
    -c '[{"folderId":"00000000-0000-0000-0000-000000000001","name":"My Test","loginUris":["https://example.com"]}]' \
    > export.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := convert.DefaultOptions()
			opts.Logger = logger

			out, err := convert.EncryptedJSON(f.folders, f.ciphers, f.password, opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(stdout, out)
			return err
		},
	}

	// Disable completion command
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Password protecting the export (required)")
	cmd.Flags().StringVarP(&f.folders, "folders", "f", "", "JSON array of folders (required)")
	cmd.Flags().StringVarP(&f.ciphers, "ciphers", "c", "", "JSON array of login credentials (required)")

	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("folders")
	cmd.MarkFlagRequired("ciphers")

	return cmd
}

// newLogger returns a console logger writing warnings and above to w.
func newLogger(w io.Writer) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zapcore.WarnLevel,
	)
	return zap.New(core)
}

// run executes the command with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	logger := newLogger(stderr)
	defer func() { _ = logger.Sync() }()

	cmd := newRootCmd(stdout, logger)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error to its exit code.
func exitCode(err error) int {
	var malformed *input.MalformedInputError
	var exportErr *export.ExportError

	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &malformed):
		return exitMalformed
	case errors.As(err, &exportErr):
		return exitExportFailure
	default:
		return exitUsage
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
