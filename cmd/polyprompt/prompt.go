package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/polyprompt/internal/config"
	"github.com/joss/polyprompt/internal/dispatch"
	"github.com/joss/polyprompt/internal/history"
	"github.com/joss/polyprompt/internal/modelspec"
	"github.com/joss/polyprompt/internal/provider"
	"github.com/joss/polyprompt/internal/render"
	"github.com/joss/polyprompt/internal/resolve"
)

func promptCmd() *cobra.Command {
	var (
		models   []string
		fromFile string
		outDir   string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "prompt [text]",
		Short: "Dispatch a prompt to one or more models",
		Example: `  polyprompt prompt "ping" -m o:gpt-4o-mini -m a:claude-3-5-haiku-20241022
  polyprompt prompt --file prompt.md -m a:claude-3-7-sonnet-20250219:4k
  polyprompt prompt "compare yourselves" -m o:gpt-4o -m g:gemini-1.5-pro --out ./answers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := config.Get()

			specs := models
			if len(specs) == 0 {
				specs = env.DefaultModels
			}

			d, err := newDispatcher(noVerify)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			r := render.New(pretty)

			if outDir != "" {
				prompt, err := promptText(args, fromFile)
				if err != nil {
					return err
				}
				paths, err := d.DispatchToFiles(ctx, prompt, specs, outDir)
				if err != nil {
					return err
				}
				fmt.Print(r.FileList(paths))
				return nil
			}

			var res *dispatch.Result
			if fromFile != "" {
				res, err = d.DispatchFromFile(ctx, fromFile, specs)
			} else {
				prompt := ""
				if len(args) > 0 {
					prompt = args[0]
				}
				res, err = d.Dispatch(ctx, prompt, specs)
			}
			if err != nil {
				return err
			}

			recordHistory(cmd, res)
			fmt.Print(r.Result(res))

			if res.Summary().Succeeded == 0 {
				return fmt.Errorf("all %d calls failed", res.Summary().Total)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&models, "model", "m", nil, "Model spec (repeatable); defaults to POLYPROMPT_DEFAULT_MODELS")
	cmd.Flags().StringVar(&fromFile, "file", "", "Read the prompt from a file")
	cmd.Flags().StringVar(&outDir, "out", "", "Write one response file per model into this directory")
	cmd.Flags().Bool("no-history", false, "Do not record this dispatch")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip model-name verification against provider listings")
	return cmd
}

// newDispatcher wires the provider router, resolver and dispatcher from
// the environment configuration.
func newDispatcher(noVerify bool) (*dispatch.Dispatcher, error) {
	env := config.Get()

	defaults, err := modelspec.ParseAll(env.DefaultModels)
	if err != nil {
		return nil, fmt.Errorf("bad POLYPROMPT_DEFAULT_MODELS: %w", err)
	}

	router := provider.NewRouter()
	var lister resolve.Lister = router
	if noVerify {
		lister = noLister{}
	}
	resolver := resolve.New(lister, defaults)
	return dispatch.New(router, resolver, env.Timeout), nil
}

// noLister disables correction: every listing reports as unavailable, so
// specs pass through unchanged.
type noLister struct{}

func (noLister) ListModels(ctx context.Context, key modelspec.ProviderKey) ([]string, error) {
	return nil, fmt.Errorf("verification disabled")
}

func promptText(args []string, fromFile string) (string, error) {
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", nil
}

func recordHistory(cmd *cobra.Command, res *dispatch.Result) {
	if skip, _ := cmd.Flags().GetBool("no-history"); skip {
		return
	}
	store, err := history.New(config.GetPaths().Data)
	if err != nil {
		return // history is best-effort
	}
	defer store.Close()
	_, _ = store.Record(cmd.Context(), res)
}
