package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inspiredoc/inspiredoc/internal/render"
	"github.com/inspiredoc/inspiredoc/internal/types"
)

var exportCommand = &cobra.Command{
	Use:   "export <markdown-file>",
	Short: "Re-render a saved Markdown document into export formats",
	Long: `Renders a previously generated Markdown file into the requested
artifact formats without calling the model again. Artifacts are pure
functions of the Markdown, so re-export always matches the original run.`,
	Args: cobra.ExactArgs(1),
	RunE: runExportCmd,
}

var (
	exportFormats []string
	exportOutDir  string
)

func init() {
	exportCommand.Flags().StringArrayVarP(&exportFormats, "format", "f", []string{"html"}, "Artifact formats to export: html, pdf, docx (repeatable)")
	exportCommand.Flags().StringVarP(&exportOutDir, "out", "o", "", "Export directory (defaults to the Markdown file's directory)")

	rootCmd.AddCommand(exportCommand)
}

func runExportCmd(_ *cobra.Command, args []string) error {
	markdownPath := args[0]
	raw, err := os.ReadFile(markdownPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", markdownPath, err)
	}

	outDir := exportOutDir
	if outDir == "" {
		outDir = filepath.Dir(markdownPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(markdownPath), filepath.Ext(markdownPath))
	renderer := render.New(render.DefaultOptions())

	for _, format := range exportFormats {
		artifactFormat := types.ArtifactFormat(format)
		switch artifactFormat {
		case types.ArtifactHTMLPreview, types.ArtifactPDF, types.ArtifactDOCX:
		default:
			return fmt.Errorf("unknown artifact format %q (expected html, pdf, or docx)", format)
		}

		artifact, err := renderer.Render(context.Background(), string(raw), artifactFormat)
		if err != nil {
			return err
		}

		path := filepath.Join(outDir, base+"."+format)
		if err := os.WriteFile(path, artifact.Bytes, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", path, len(artifact.Bytes))
	}
	return nil
}
