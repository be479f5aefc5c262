package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/scoring"
)

var (
	scoreResumeFile string
	scoreJDFile     string
	scoreTopN       int
	scoreStrict     bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Long:  "Score a plain-text resume against a job description and print the coverage breakdown as JSON.",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumeFile, "resume", "r", "", "Path to plain-text resume (required)")
	scoreCmd.Flags().StringVarP(&scoreJDFile, "jd", "j", "", "Path to job description text (required)")
	scoreCmd.Flags().IntVar(&scoreTopN, "top-n", scoring.DefaultTopNSkills, "Maximum number of extracted skills to score")
	scoreCmd.Flags().BoolVar(&scoreStrict, "strict", false, "Disable partial credit for synonym matches")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("jd")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	resumeText, err := os.ReadFile(scoreResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	jdText, err := os.ReadFile(scoreJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	state := parsing.ParseResumeText(string(resumeText))
	scorer := scoring.New(lexicon.Default())
	result := scorer.ScoreResumeAgainstJD(string(jdText), state, scoreTopN, scoreStrict)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
