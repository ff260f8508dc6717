// Command pipeline runs the three stages in sequence against a sample
// file: analyze and import, connect and query, then analyze one record
// through the model.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkotelnikov/transcription-insights/internal/bootstrap"
	"github.com/mkotelnikov/transcription-insights/internal/config"
	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
	"github.com/mkotelnikov/transcription-insights/internal/observability/logging"
)

const sampleTranscription = `2-D M-MODE:
1. Left atrial enlargement with left atrial diameter of 4.7 cm.
2. Normal size right and left ventricle.
3. Normal LV systolic function with left ventricular ejection fraction of 51%.
4. Normal LV diastolic function.
5. No pericardial effusion.
6. Normal morphology of aortic valve, mitral valve, tricuspid valve, and pulmonary valve.
7. PA systolic pressure is 36 mmHg.
DOPPLER:
1. Mild mitral and tricuspid regurgitation.
2. Trace aortic and pulmonary regurgitation.`

func main() {
	cfg := config.Load()
	samplePath := flag.String("file", cfg.SampleFile, "tabular file to import")
	flag.Parse()

	logger := logging.NewJSONLogger("pipeline", cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := runImport(ctx, app, *samplePath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	if !runQueries(ctx, app) {
		fmt.Println("Failed to connect to store or no tables found.")
		os.Exit(1)
	}
	runInsight(ctx, app)

	fmt.Println("\nCompleted!")
}

func divider(title string) {
	fmt.Printf("\n%s\n %s \n%s\n\n", strings.Repeat("=", 80), title, strings.Repeat("=", 80))
}

func runImport(ctx context.Context, app *bootstrap.App, path string) error {
	divider("DATA IMPORT")

	fmt.Printf("Analyzing file: %s\n", path)
	analysis, err := app.Importer.AnalyzeFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d rows and %d columns\n", analysis.RowCount, analysis.ColumnCount)

	fmt.Println("\nImporting to store...")
	result, err := app.Importer.ImportFile(ctx, path, "", domain.PolicyReplace)
	if err != nil {
		return err
	}

	fmt.Printf("Import complete: %d rows imported to '%s'\n", result.RowsImported, result.TableName)
	fmt.Printf("Store location: %s\n", result.StoreLocation)
	return nil
}

func runQueries(ctx context.Context, app *bootstrap.App) bool {
	divider("DATA ACCESS")

	fmt.Println("Connecting to store...")
	if !app.Query.Connect(ctx) {
		return false
	}

	fmt.Println("\nTranscriptions by specialty:")
	for _, item := range app.Query.SpecialtySummary(ctx) {
		fmt.Printf("  - %s: %d records\n", item.Specialty, item.Count)
	}

	fmt.Print("\nEnter a search term (or press Enter to skip): ")
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" {
			results := app.Query.Search(ctx, term, 3)
			fmt.Printf("\nFound %d results for '%s':\n", len(results), term)
			for _, row := range results {
				fmt.Printf("  - %v (%v): %.100v...\n",
					row.Get("sample_name"), row.Get("medical_specialty"), row.Get("description"))
			}
		}
	}
	return true
}

func runInsight(ctx context.Context, app *bootstrap.App) {
	divider("PROCESSOR")

	fmt.Println("Medical Transcription Analyzer")
	if err := app.Insight.Initialize("", "", nil); err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Please set your model API key in the environment variables.")
		return
	}

	fmt.Println("\nAnalyzing...")
	insight, err := app.Insight.Analyze(ctx, domain.TranscriptionRecord{
		Specialty:     "Cardiovascular / Pulmonary",
		Transcription: sampleTranscription,
	})
	if err != nil {
		fmt.Printf("Error during analysis: %v\n", err)
		return
	}

	fmt.Println("\nANALYSIS RESULTS:")
	fmt.Printf("\nSummary: %s\n", insight.Summary)

	fmt.Println("\nKey Findings:")
	for _, finding := range insight.KeyFindings {
		fmt.Printf("- %s\n", finding)
	}

	fmt.Println("\nMedical Terms:")
	for _, term := range insight.MedicalTerms {
		fmt.Printf("- %s\n", term)
	}

	fmt.Println("\nRecommendations:")
	for _, rec := range insight.Recommendations {
		fmt.Printf("- %s\n", rec)
	}

	fmt.Printf("\nSpecialty Context: %s\n", insight.SpecialtyContext)
}
