package main

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/internal/provider"
	"github.com/joss/polyprompt/internal/render"
	"github.com/joss/polyprompt/pkg/llm"
)

func modelsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "models [provider]",
		Short: "List available models for one or all providers",
		Example: `  polyprompt models
  polyprompt models anthropic
  polyprompt models o --filter 'gpt-4*'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]modelspec.ProviderKey, 0, len(modelspec.All()))
			if len(args) > 0 {
				prov, ok := modelspec.Lookup(args[0])
				if !ok {
					return &modelspec.UnknownProviderError{Token: args[0]}
				}
				keys = append(keys, prov.Key)
			} else {
				for _, c := range modelspec.All() {
					keys = append(keys, c.Key)
				}
			}

			router := provider.NewRouter()
			r := render.New(pretty)

			for _, key := range keys {
				names, err := router.ListModels(cmd.Context(), key)
				catalog, _ := router.Catalog(key)
				if err != nil {
					if errors.Is(err, llm.ErrListingUnsupported) || len(args) == 0 {
						// Fall back to the static catalog; listing may
						// need credentials we don't have here.
						names = catalogNames(catalog)
					} else {
						return err
					}
				}

				if filter != "" {
					names = matchNames(names, filter)
				}
				fmt.Print(r.Models(key.String(), names, catalog))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only show models matching this wildcard pattern")
	return cmd
}

func catalogNames(catalog []llm.Model) []string {
	names := make([]string, 0, len(catalog))
	for _, m := range catalog {
		names = append(names, m.ID)
	}
	return names
}

func matchNames(names []string, pattern string) []string {
	var out []string
	for _, n := range names {
		if ok, err := doublestar.Match(pattern, n); err == nil && ok {
			out = append(out, n)
		}
	}
	return out
}
