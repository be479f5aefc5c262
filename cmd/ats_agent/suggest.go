package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/types"
)

var (
	suggestResumeFile    string
	suggestJDFile        string
	suggestOverridesFile string
	suggestTruthMode     string
	suggestStrict        bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest truth-guarded resume patches for a job description",
	Long:  "Score a resume against a job description and print allowed patches plus blocked suggestions with remediation.",
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestResumeFile, "resume", "r", "", "Path to plain-text resume (required)")
	suggestCmd.Flags().StringVarP(&suggestJDFile, "jd", "j", "", "Path to job description text (required)")
	suggestCmd.Flags().StringVar(&suggestOverridesFile, "overrides", "", "Path to overrides JSON")
	suggestCmd.Flags().StringVar(&suggestTruthMode, "truth-mode", types.TruthModeBalanced, "Truth mode: off, balanced, or strict")
	suggestCmd.Flags().BoolVar(&suggestStrict, "strict", false, "Disable partial credit for synonym matches")
	_ = suggestCmd.MarkFlagRequired("resume")
	_ = suggestCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(_ *cobra.Command, _ []string) error {
	switch suggestTruthMode {
	case types.TruthModeOff, types.TruthModeBalanced, types.TruthModeStrict:
	default:
		return fmt.Errorf("invalid truth mode: %s", suggestTruthMode)
	}

	resumeText, err := os.ReadFile(suggestResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	jdText, err := os.ReadFile(suggestJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	overrides := &types.Overrides{Skills: []types.OverrideSkill{}}
	if suggestOverridesFile != "" {
		data, err := os.ReadFile(suggestOverridesFile)
		if err != nil {
			return fmt.Errorf("failed to read overrides: %w", err)
		}
		if err := json.Unmarshal(data, overrides); err != nil {
			return fmt.Errorf("failed to parse overrides JSON: %w", err)
		}
	}

	state := parsing.ParseResumeText(string(resumeText))
	suggester := patching.NewSuggester(lexicon.Default())
	result := suggester.SuggestPatches(string(jdText), state, overrides, suggestStrict, suggestTruthMode)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
