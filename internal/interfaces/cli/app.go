// Package cli implements the cobra-based bundle authoring and
// inspection tool (spec.md §1 names offline bot build as an external
// concern; this package is the minimal local tooling for it, grounded
// in the teacher's own cobra-based cmd/cli entrypoint).
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatopera/clause/internal/domain/bot"
	"github.com/chatopera/clause/internal/domain/profile"
	"github.com/chatopera/clause/internal/infrastructure/bundle"
	"github.com/chatopera/clause/internal/infrastructure/profilefmt"
	"github.com/chatopera/clause/internal/infrastructure/recall"
	"github.com/chatopera/clause/internal/infrastructure/tokenizer"
	"github.com/chatopera/clause/internal/infrastructure/triedict"
)

// NewRootCommand builds the "clause" cobra CLI: profile/corpus/trie
// compilation and bundle inspection, one subcommand per compiled
// artifact named in bundle.Paths.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "clause",
		Short: "clause bundle authoring and inspection tool",
	}

	root.AddCommand(newProfileCmd())
	root.AddCommand(newCorpusCmd())
	root.AddCommand(newTrieCmd())
	root.AddCommand(newBundleCmd())

	return root
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "compile and validate intent profiles",
	}

	var out string
	compile := &cobra.Command{
		Use:   "compile <profile.yaml>",
		Short: "compile a profile.yaml into the profile.pbs artifact a bundle loads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = "profile.pbs"
			}
			p, err := profilefmt.CompileFile(args[0], out)
			if err != nil {
				return err
			}
			fmt.Printf("compiled %d intents -> %s\n", len(p.Intents), out)
			return nil
		},
	}
	compile.Flags().StringVarP(&out, "out", "o", "", "output path (default profile.pbs)")
	cmd.AddCommand(compile)

	validate := &cobra.Command{
		Use:   "validate <profile.yaml>",
		Short: "parse and validate a profile.yaml without writing an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := profilefmt.Compile(src); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	cmd.AddCommand(validate)

	return cmd
}

// corpusSource is the authoring shape for a corpus.bin input: one entry
// per labeled training utterance. terms is tokenized by the default
// rule-based tokenizer when omitted.
type corpusSource struct {
	IntentName string   `json:"intent_name"`
	Utterance  string   `json:"utterance"`
	Terms      []string `json:"terms,omitempty"`
}

func newCorpusCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "compile a JSON list of labeled utterances into corpus.bin",
	}
	compile := &cobra.Command{
		Use:  "compile <corpus.json>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = "corpus.bin"
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var sources []corpusSource
			if err := json.Unmarshal(data, &sources); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			tok := tokenizer.New()
			entries := make([]recall.Entry, 0, len(sources))
			for _, s := range sources {
				terms := s.Terms
				if len(terms) == 0 {
					tokens, err := tok.Tokenize(context.Background(), s.Utterance)
					if err != nil {
						return fmt.Errorf("tokenize %q: %w", s.Utterance, err)
					}
					for _, t := range tokens {
						terms = append(terms, t.Term)
					}
				}
				entries = append(entries, recall.Entry{
					Doc:   bot.Document{IntentName: s.IntentName, Utterance: s.Utterance},
					Terms: terms,
				})
			}

			if err := recall.Save(entries, out); err != nil {
				return err
			}
			fmt.Printf("compiled %d utterances -> %s\n", len(entries), out)
			return nil
		},
	}
	compile.Flags().StringVarP(&out, "out", "o", "", "output path (default corpus.bin)")
	cmd.AddCommand(compile)
	return cmd
}

func newTrieCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "trie",
		Short: "compile custom-dictionary word lists into a trie artifact",
	}
	compile := &cobra.Command{
		Use:   "compile <words.json>",
		Short: "words.json maps dict_name -> list of words",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = "dictwords.trie.bin"
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var words map[string][]string
			if err := json.Unmarshal(data, &words); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if err := triedict.Compile(words, out); err != nil {
				return err
			}
			total := 0
			for _, ws := range words {
				total += len(ws)
			}
			fmt.Printf("compiled %d words across %d dictionaries -> %s\n", total, len(words), out)
			return nil
		},
	}
	compile.Flags().StringVarP(&out, "out", "o", "", "output path (default dictwords.trie.bin)")
	cmd.AddCommand(compile)
	return cmd
}

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "inspect a compiled bot bundle",
	}
	inspect := &cobra.Command{
		Use:   "inspect <dir>",
		Short: "load a bundle directory and report what it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectBundle(args[0])
		},
	}
	cmd.AddCommand(inspect)
	return cmd
}

func inspectBundle(dir string) error {
	paths := bundle.DefaultPaths(dir)

	report := func(name, path string) {
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("  %-10s MISSING (%s)\n", name, path)
			return
		}
		fmt.Printf("  %-10s OK (%s)\n", name, path)
	}

	fmt.Printf("bundle: %s\n", dir)
	report("corpus", paths.Corpus)
	report("ner model", paths.Model)
	report("trie", paths.Trie)
	report("profile", paths.Profile)

	p, err := profile.Load(paths.Profile)
	if err != nil {
		return fmt.Errorf("profile failed to load: %w", err)
	}
	fmt.Printf("intents: %d\n", len(p.Intents))
	for _, dictName := range p.ReferredSysdicts() {
		fmt.Printf("  referred sysdict: %s\n", dictName)
	}

	return nil
}
