// Package main provides the polyprompt CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version = "0.1.0"
	pretty  = true
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "polyprompt",
		Short: "Send one prompt to many LLM providers at once",
		Long: `polyprompt: one prompt, many models.

Model specs are provider-prefixed identifiers:
  o:gpt-4o-mini                          OpenAI
  a:claude-3-7-sonnet-20250219:4k        Anthropic, 4096-token thinking budget
  l:llama3.2:1b                          Ollama

Providers: openai (o), anthropic (a), gemini (g), groq (q),
deepseek (d), ollama (l).`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				pretty = false
			} else {
				pretty = term.IsTerminal(int(os.Stdout.Fd()))
			}
		},
	}

	rootCmd.PersistentFlags().Bool("plain", false, "Plain output (no color, no decoration)")

	rootCmd.AddCommand(promptCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
