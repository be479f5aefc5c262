package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/extraction"
	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/scoring"
)

var (
	extractJDFile string
	extractCap    int
)

var extractSkillsCmd = &cobra.Command{
	Use:   "extract-skills",
	Short: "Extract required and preferred skills from a job description",
	RunE:  runExtractSkills,
}

func init() {
	extractSkillsCmd.Flags().StringVarP(&extractJDFile, "jd", "j", "", "Path to job description text (required)")
	extractSkillsCmd.Flags().IntVar(&extractCap, "cap", scoring.DefaultTopNSkills, "Maximum number of skills to return")
	_ = extractSkillsCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(extractSkillsCmd)
}

func runExtractSkills(_ *cobra.Command, _ []string) error {
	jdText, err := os.ReadFile(extractJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	extractor := extraction.New(lexicon.Default())
	skills := extractor.ExtractSkills(string(jdText), extractCap)

	out, err := json.MarshalIndent(map[string]any{
		"required":  skills.Required,
		"preferred": skills.Preferred,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
