package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"notebook-core/internal/bootstrap"
	"notebook-core/internal/config"
	"notebook-core/internal/pkg/logger"
	"notebook-core/pkg/notebook"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	idColor     = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

// =============================================================================
// LS
// =============================================================================

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls FILE",
		Short: "List the cells of a notebook in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			nb, err := notebook.FromJSON(raw)
			if err != nil {
				return err
			}
			printCells(cmd, nb)
			return nil
		},
	}
}

func printCells(cmd *cobra.Command, nb *notebook.Notebook) {
	out := cmd.OutOrStdout()
	headerColor.Fprintf(out, "%s (%s) %d cells\n", nb.Name, nb.Id, nb.Len())

	for i, cell := range nb.Cells() {
		outputs := make([]string, 0, len(cell.OutputMessages))
		for _, msg := range cell.OutputMessages {
			outputs = append(outputs, msg.GetTypeName())
		}
		marker := " "
		if cell.Id() == nb.InitializationCellId {
			marker = "*"
		}
		fmt.Fprintf(out, "%s%3d ", marker, i)
		idColor.Fprint(out, cell.Id())
		fmt.Fprintf(out, "  %s -> [%s]\n", cell.InputMessage.GetTypeName(), strings.Join(outputs, ", "))
	}
}

// =============================================================================
// VALIDATE
// =============================================================================

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Decode a notebook and report what re-encoding changes",
		Long: `Imports the notebook into a session, exports it again and compares the
result with the file. Differences are reported as normalization. A notebook
that does not survive a second round trip unchanged is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
		svc := c.NotebookService
		ctx := cmd.Context()

		opened, err := svc.Import(ctx, raw)
		if err != nil {
			return err
		}
		first, err := svc.Export(ctx, opened.Id, false)
		if err != nil {
			return err
		}
		if err := svc.Close(ctx, opened.Id); err != nil {
			return err
		}

		reopened, err := svc.Import(ctx, first)
		if err != nil {
			return fmt.Errorf("re-import failed: %w", err)
		}
		second, err := svc.Export(ctx, reopened.Id, false)
		if err != nil {
			return err
		}

		if diff, err := jsonDiff(first, second); err != nil {
			return err
		} else if diff != "" {
			return fmt.Errorf("notebook is not stable across round trips (-first +second):\n%s", diff)
		}

		out := cmd.OutOrStdout()
		diff, err := jsonDiff(raw, first)
		if err != nil {
			return err
		}
		if diff != "" {
			warnColor.Fprintf(out, "%s: normalized on decode (-file +decoded):\n", args[0])
			fmt.Fprint(out, diff)
		}
		okColor.Fprintf(out, "%s: ok, %d cells\n", args[0], len(reopened.IdSequence))
		return nil
	})
}

func jsonDiff(a, b []byte) (string, error) {
	var x, y interface{}
	if err := json.Unmarshal(a, &x); err != nil {
		return "", err
	}
	if err := json.Unmarshal(b, &y); err != nil {
		return "", err
	}
	return cmp.Diff(x, y), nil
}

// =============================================================================
// FMT
// =============================================================================

func newFmtCmd() *cobra.Command {
	var (
		excludeOutput bool
		asYAML        bool
	)
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print the normalized encoding of a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
				opened, err := c.NotebookService.Import(cmd.Context(), raw)
				if err != nil {
					return err
				}
				encoded, err := c.NotebookService.Export(cmd.Context(), opened.Id, excludeOutput)
				if err != nil {
					return err
				}
				formatted, err := formatNotebook(encoded, asYAML)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(formatted)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&excludeOutput, "exclude-output", false, "omit the output messages of every cell")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	return cmd
}

func formatNotebook(encoded []byte, asYAML bool) ([]byte, error) {
	if asYAML {
		var doc interface{}
		if err := json.Unmarshal(encoded, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(doc)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, encoded, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// withContainer runs fn against a fresh container. Logs go to the log file
// only so that stdout carries nothing but command output.
func withContainer(ctx context.Context, fn func(c *bootstrap.Container) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	c := bootstrap.NewContainer(cfg, logger.NewIsolatedLogger(cfg.App.LogFilePath))
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := c.Start(ctx); err != nil {
		return err
	}
	return fn(c)
}
