package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"faraid-engine/internal/engine"
	"faraid-engine/internal/i18n"
	"faraid-engine/internal/model"
	"faraid-engine/internal/render"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Distribute an estate described by a request file",
	Example: `  faraid-engine calculate -f request.json
  faraid-engine calculate -f request.json --lang ml
  cat request.json | faraid-engine calculate -f - --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readRequest(cmd.InOrStdin(), reqFile)
		if err != nil {
			return err
		}
		var req model.CalculationRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("decode %s: %w", reqFile, err)
		}

		catalog, err := i18n.LoadEmbedded()
		if err != nil {
			return err
		}
		if trace {
			req.Trace = true
		}
		if lang != "" {
			req.Language = lang
		}
		if req.Language == "" {
			req.Language = cfg.DefaultLanguage
		}
		locale := catalog.Locale(req.Language)
		req.Language = locale.Tag()

		req.Estate = newRateSource().Resolve(cmd.Context(), req.Estate)
		resp := engine.Process(&req)
		locale.Label(resp.CalculationResult.Distribution)

		out := cmd.OutOrStdout()
		if asJSON || req.Trace {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		if resp.CalculationMetadata.CalculationOutcome != model.OutcomeSuccess {
			if err := render.Messages(cmd.ErrOrStderr(), resp.CalculationResult.Messages); err != nil {
				return err
			}
			return fmt.Errorf("calculation %s failed", resp.CalculationMetadata.CalculationID)
		}
		return render.Distribution(out, resp.CalculationResult.Distribution, locale)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the relative categories the engine accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := i18n.LoadEmbedded()
		if err != nil {
			return err
		}
		if lang == "" {
			lang = cfg.DefaultLanguage
		}
		views := catalog.Locale(lang).Categories()
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}
		return render.Categories(cmd.OutOrStdout(), views)
	},
}

func readRequest(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
