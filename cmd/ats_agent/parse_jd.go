package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/fetch"
	"github.com/jonathan/resume-ats/internal/llm"
)

var (
	parseJDFile   string
	parseJDURL    string
	parseJDAPIKey string
)

var parseJDCmd = &cobra.Command{
	Use:   "parse-jd",
	Short: "Parse a job description into a structured profile",
	Long:  "Parse a job description file or URL into a structured profile. Uses Gemini when an API key is available, a rule-based parser otherwise.",
	RunE:  runParseJD,
}

func init() {
	parseJDCmd.Flags().StringVarP(&parseJDFile, "jd", "j", "", "Path to job description text")
	parseJDCmd.Flags().StringVar(&parseJDURL, "url", "", "Posting URL to fetch")
	parseJDCmd.Flags().StringVar(&parseJDAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	rootCmd.AddCommand(parseJDCmd)
}

func runParseJD(_ *cobra.Command, _ []string) error {
	if (parseJDFile == "") == (parseJDURL == "") {
		return fmt.Errorf("provide exactly one of --jd or --url")
	}

	ctx := context.Background()

	var jdText string
	if parseJDFile != "" {
		data, err := os.ReadFile(parseJDFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jdText = string(data)
	} else {
		text, err := fetch.JobText(ctx, parseJDURL, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch posting: %w", err)
		}
		jdText = text
	}

	apiKey := parseJDAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var client llm.Client
	if apiKey != "" {
		c, err := llm.NewClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = c.Close() }()
		client = c
	}

	profile := llm.NewJDParser(client).ParseJD(ctx, jdText)

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
