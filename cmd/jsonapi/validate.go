package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/jsonapi"
	"github.com/conduit-lang/jsonapi/internal/config"
)

var (
	validateConfig string
	validateType   string
	validateJSON   bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateConfig, "config", "c", "", "Schema config file (default jsonapi.yml)")
	validateCmd.Flags().StringVarP(&validateType, "type", "t", "", "Expected primary resource type")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output results in JSON format")
}

type fileResult struct {
	File   string      `json:"file"`
	Valid  bool        `json:"valid"`
	Errors []fileError `json:"errors,omitempty"`
}

type fileError struct {
	Pointer string `json:"pointer,omitempty"`
	Message string `json:"message"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate JSON:API documents",
	Long: `Parse each file as a JSON:API document and report structural failures
with their JSON pointers. With --type, the primary data is additionally
checked against the schema declared in the config file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var engine *jsonapi.Engine
		if validateType != "" {
			cfg, err := config.Load(validateConfig)
			if err != nil {
				return err
			}
			mode, err := cfg.CaseMode()
			if err != nil {
				return err
			}
			reg, err := cfg.BuildRegistry()
			if err != nil {
				return err
			}
			if _, err := reg.Lookup(validateType); err != nil {
				return err
			}
			engine = jsonapi.NewEngine(reg, jsonapi.WithCaseMode(mode))
		}

		results := make([]fileResult, 0, len(args))
		failed := 0
		for _, file := range args {
			res := validateFile(file, engine)
			if !res.Valid {
				failed++
			}
			results = append(results, res)
		}

		if validateJSON {
			out, err := gojson.MarshalIndent(results, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		} else {
			printResults(results)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d document(s) invalid", failed, len(args))
		}
		return nil
	},
}

func validateFile(file string, engine *jsonapi.Engine) fileResult {
	res := fileResult{File: file, Valid: true}
	fail := func(pointer, message string) fileResult {
		res.Valid = false
		res.Errors = append(res.Errors, fileError{Pointer: pointer, Message: message})
		return res
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return fail("", err.Error())
	}

	var body map[string]any
	if err := gojson.Unmarshal(raw, &body); err != nil {
		return fail("", "not a JSON object: "+err.Error())
	}

	doc, err := jsonapi.ParseDocument(body)
	if err != nil {
		if docErr, ok := err.(*jsonapi.InvalidDocumentError); ok {
			return fail(docErr.Pointer, docErr.Message)
		}
		return fail("", err.Error())
	}

	if engine != nil && doc.Data != nil {
		if _, err := engine.Denormalize(doc, validateType); err != nil {
			if docErr, ok := err.(*jsonapi.InvalidDocumentError); ok {
				return fail(docErr.Pointer, docErr.Message)
			}
			return fail("/data", err.Error())
		}
	}
	return res
}

func printResults(results []fileResult) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)

	for _, res := range results {
		if res.Valid {
			green.Printf("✓ %s\n", res.File)
			continue
		}
		red.Printf("✗ %s\n", res.File)
		for _, e := range res.Errors {
			if e.Pointer != "" {
				dim.Printf("    %s: ", e.Pointer)
			} else {
				fmt.Print("    ")
			}
			fmt.Println(e.Message)
		}
	}
}
