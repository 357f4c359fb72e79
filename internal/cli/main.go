package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "phishscore",
		Short:        "Score emails for phishing likelihood",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("model", "", "Model artifact path (.json, .yaml); overrides PHISHSCORE_MODEL_PATH")
	root.PersistentFlags().String("lexicon", "", "Lexicon yaml path; overrides PHISHSCORE_LEXICON_PATH")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serve.Flags().String("addr", "", "Listen address; overrides PHISHSCORE_ADDR")

	score := &cobra.Command{
		Use:   "score [text...|-]",
		Short: "Score text from arguments or stdin",
		RunE:  runScore,
	}
	score.Flags().String("subject", "", "Message subject")

	eml := &cobra.Command{
		Use:   "eml <file.eml>",
		Short: "Score an RFC 5322 message file",
		Args:  cobra.ExactArgs(1),
		RunE:  runEML,
	}

	root.AddCommand(serve, score, eml)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
