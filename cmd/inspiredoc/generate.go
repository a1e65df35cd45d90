package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inspiredoc/inspiredoc/internal/normalize"
	"github.com/inspiredoc/inspiredoc/internal/pipeline"
	"github.com/inspiredoc/inspiredoc/internal/types"
)

var generateCommand = &cobra.Command{
	Use:   "generate",
	Short: "Generate a document from sources and an exemplar",
	Long: `Runs the full pipeline: extracts text from the given documents, assembles
the prompt, calls the model, and exports the result.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath  string
	genSources     []string
	genExemplars   []string
	genNewSources  []string
	genInstruction string
	genFormats     []string
	genProvider    string
	genModel       string
	genAPIKey      string
	genTemperature float64
	genMaxTokens   int
	genOutDir      string
	genPageBreaks  string
	genVerbose     bool
)

func init() {
	generateCommand.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCommand.Flags().StringArrayVarP(&genSources, "source", "s", nil, "Reference document the exemplar was derived from (repeatable)")
	generateCommand.Flags().StringArrayVarP(&genExemplars, "exemplar", "e", nil, "Exemplar document whose structure and style to mimic (repeatable)")
	generateCommand.Flags().StringArrayVarP(&genNewSources, "new-source", "n", nil, "New source material to generate from (repeatable)")
	generateCommand.Flags().StringVarP(&genInstruction, "instruction", "i", "", "Free-form instruction for the generation")
	generateCommand.Flags().StringArrayVarP(&genFormats, "format", "f", []string{"html"}, "Artifact formats to export: html, pdf, docx (repeatable)")
	generateCommand.Flags().StringVar(&genProvider, "provider", "", "Model provider: openai or gemini")
	generateCommand.Flags().StringVar(&genModel, "model", "", "Model identifier")
	generateCommand.Flags().StringVar(&genAPIKey, "api-key", "", "Provider API key (defaults to OPENAI_API_KEY or GEMINI_API_KEY env var)")
	generateCommand.Flags().Float64Var(&genTemperature, "temperature", 0, "Sampling temperature (0.0-2.0)")
	generateCommand.Flags().IntVar(&genMaxTokens, "max-tokens", 0, "Completion token cap")
	generateCommand.Flags().StringVarP(&genOutDir, "out", "o", "", "Export directory")
	generateCommand.Flags().StringVar(&genPageBreaks, "page-breaks", "", "Page break handling: strip or separator")
	generateCommand.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(generateCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(genConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = genProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = genModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = genTemperature
	}
	if cmd.Flags().Changed("max-tokens") {
		cfg.MaxTokens = genMaxTokens
	}
	if cmd.Flags().Changed("out") {
		cfg.ExportDir = genOutDir
	}
	if cmd.Flags().Changed("page-breaks") {
		cfg.PageBreaks = genPageBreaks
	}
	if genVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		Instruction: genInstruction,
		Params: types.GenerationParams{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Style:       cfg.Style,
		},
		Budget:     budgetFromConfig(cfg),
		PageBreaks: normalize.PageBreakPolicy(cfg.PageBreaks),
		Verbose:    cfg.Verbose,
	}

	for _, set := range []struct {
		role  types.Role
		paths []string
	}{
		{types.RoleOldSource, genSources},
		{types.RoleExemplar, genExemplars},
		{types.RoleNewSource, genNewSources},
	} {
		for _, path := range set.paths {
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			opts.Inputs = append(opts.Inputs, pipeline.InputFile{
				Role:     set.role,
				Filename: filepath.Base(path),
				Bytes:    raw,
			})
		}
	}

	for _, format := range genFormats {
		switch types.ArtifactFormat(format) {
		case types.ArtifactHTMLPreview, types.ArtifactPDF, types.ArtifactDOCX:
			opts.ArtifactFormats = append(opts.ArtifactFormats, types.ArtifactFormat(format))
		default:
			return fmt.Errorf("unknown artifact format %q (expected html, pdf, or docx)", format)
		}
	}

	service, artifacts, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	result, err := service.Run(ctx, opts)
	if err != nil {
		return err
	}

	for _, failure := range result.DocumentFailures {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s: %s\n", failure.Filename, failure.Message)
	}

	return exportResult(cfg.ExportDir, result)
}

// exportResult writes the generated Markdown and every artifact into the
// export directory.
func exportResult(dir string, result *pipeline.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	markdownPath := filepath.Join(dir, "document.md")
	if err := os.WriteFile(markdownPath, []byte(result.Generation.Markdown), 0o644); err != nil {
		return fmt.Errorf("writing Markdown: %w", err)
	}
	fmt.Printf("Wrote %s (%s)\n", markdownPath, result.Generation.Status)

	for _, artifact := range result.Artifacts {
		path := filepath.Join(dir, "document."+string(artifact.Format))
		if err := os.WriteFile(path, artifact.Bytes, 0o644); err != nil {
			return fmt.Errorf("writing %s artifact: %w", artifact.Format, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", path, len(artifact.Bytes))
	}
	return nil
}
