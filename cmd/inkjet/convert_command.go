package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"inkjet/internal/api"
	"inkjet/internal/convert"
	"inkjet/internal/logging"
	"inkjet/internal/services/adobe"
	"inkjet/internal/textutil"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var direct bool

	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert an HTML file to PDF via the daemon",
		Long: "Convert reads an HTML file (or stdin when INPUT is \"-\") and sends it " +
			"to the inkjet daemon for conversion. The resulting PDF is written next " +
			"to the input unless --output is given. With --direct the vendor API is " +
			"called in-process without a running daemon.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = defaultOutputPath(args[0], string(html))
			}

			out, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}

			var written int64
			if direct {
				written, err = convertDirect(cmd.Context(), ctx, html, out)
			} else {
				var client *api.Client
				client, err = ctx.apiClient()
				if err == nil {
					written, err = client.Generate(cmd.Context(), html, out)
					if err != nil {
						err = wrapDaemonError(err, ctx.daemonAddress())
					}
				}
			}
			closeErr := out.Close()
			if err != nil {
				_ = os.Remove(target)
				return err
			}
			if closeErr != nil {
				return fmt.Errorf("finish output file: %w", closeErr)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", written, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination for the PDF file")
	cmd.Flags().BoolVar(&direct, "direct", false, "Call the vendor API in-process instead of the daemon")
	return cmd
}

// convertDirect runs the vendor pipeline in-process, so a daemon is not
// required. Nothing is recorded in history.
func convertDirect(runCtx context.Context, ctx *commandContext, html []byte, dst io.Writer) (int64, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return 0, err
	}

	client, err := adobe.New(adobe.Config{
		ClientID:        cfg.Adobe.ClientID,
		ClientSecret:    cfg.Adobe.ClientSecret,
		Scope:           cfg.Adobe.Scope,
		BaseURL:         cfg.Adobe.BaseURL,
		TokenURL:        cfg.Adobe.TokenURL,
		Timeout:         time.Duration(cfg.Adobe.TimeoutSeconds) * time.Second,
		PollInterval:    time.Duration(cfg.Convert.PollIntervalSeconds) * time.Second,
		PollMaxAttempts: cfg.Convert.PollMaxAttempts,
	})
	if err != nil {
		return 0, fmt.Errorf("vendor client: %w", err)
	}

	pipeline := convert.New(client, adobe.RenderOptions{
		IncludeHeaderFooter: cfg.Convert.IncludeHeaderFooter,
		PageWidthInches:     cfg.Convert.PageWidthInches,
		PageHeightInches:    cfg.Convert.PageHeightInches,
	}, nil, logging.NewNop())

	result, err := pipeline.Run(runCtx, html, dst)
	if err != nil {
		return 0, err
	}
	return result.OutputBytes, nil
}

func readInput(stdin io.Reader, arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return data, nil
}

// defaultOutputPath derives the PDF location from the input path, falling
// back to the document title for stdin input.
func defaultOutputPath(input, html string) string {
	if input != "-" {
		ext := filepath.Ext(input)
		return strings.TrimSuffix(input, ext) + ".pdf"
	}
	title := textutil.DisplayTitle(textutil.DocumentTitle(html))
	return textutil.SanitizeFileName(title) + ".pdf"
}
