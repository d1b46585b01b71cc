// Command gen-workbook writes the sample scorecard workbook to disk.
// Useful for seeding demos and for uploading against a local server.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/openpmo/scorecard/internal/adapters/codec"
	"github.com/openpmo/scorecard/internal/domain/sample"
)

const defaultOutput = "scorecard_sample.xlsx"

func main() {
	var (
		output = flag.String("output", defaultOutput, "Output path for the generated workbook")
		asOf   = flag.String("as-of", "", "Reference date (YYYY-MM-DD) for sample milestones; defaults to today")
	)
	flag.Parse()

	today := time.Now()
	if *asOf != "" {
		parsed, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			os.Stderr.WriteString("invalid -as-of date: " + err.Error() + "\n")
			os.Exit(1)
		}
		today = parsed
	}

	payload, err := codec.Encode(sample.Workbook(today))
	if err != nil {
		os.Stderr.WriteString("failed to encode workbook: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := os.WriteFile(*output, payload, 0o644); err != nil {
		os.Stderr.WriteString("failed to write " + *output + ": " + err.Error() + "\n")
		os.Exit(1)
	}
	os.Stdout.WriteString("wrote " + *output + "\n")
}
