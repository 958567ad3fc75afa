package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/cvnexus/internal/document"
	"github.com/amishk599/cvnexus/internal/input"
	"github.com/amishk599/cvnexus/internal/model"
	"github.com/amishk599/cvnexus/internal/report"
	"github.com/amishk599/cvnexus/internal/tui"
)

var analyzeFlags struct {
	text       string
	textFile   string
	pdf        string
	importFile string
	job        string
	jobFile    string
	format     string
	quiet      bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV once and print the report",
	Long: "Runs a single analysis. The CV comes from --pdf (sent as a document) or from pasted text " +
		"(--text, --text-file, or --import to extract text from a PDF, DOCX or text file). " +
		"When both are given the PDF is analyzed.",
	Example: "  cvnexus analyze --pdf resume.pdf --job-file posting.txt\n" +
		"  cvnexus analyze --import resume.docx --format json",
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.text, "text", "", "CV text")
	f.StringVar(&analyzeFlags.textFile, "text-file", "", "read CV text from a file")
	f.StringVar(&analyzeFlags.pdf, "pdf", "", "PDF to send as a document")
	f.StringVar(&analyzeFlags.importFile, "import", "", "extract CV text from a PDF, DOCX or text file")
	f.StringVar(&analyzeFlags.job, "job", "", "job description to compare against")
	f.StringVar(&analyzeFlags.jobFile, "job-file", "", "read the job description from a file")
	f.StringVar(&analyzeFlags.format, "format", "text", "output format: text or json")
	f.BoolVarP(&analyzeFlags.quiet, "quiet", "q", false, "no spinner")
	analyzeCmd.MarkFlagsMutuallyExclusive("text", "text-file", "import")
	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-file")
	rootCmd.AddCommand(analyzeCmd)
}

// composeFromFlags fills a composer the way a user would fill the form.
func composeFromFlags() (*input.Composer, error) {
	c := input.NewComposer()

	switch {
	case analyzeFlags.text != "":
		c.SetText(analyzeFlags.text)
	case analyzeFlags.textFile != "":
		data, err := os.ReadFile(analyzeFlags.textFile)
		if err != nil {
			return nil, fmt.Errorf("read text file: %w", err)
		}
		c.SetText(string(data))
	case analyzeFlags.importFile != "":
		text, err := document.ExtractText(analyzeFlags.importFile)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", analyzeFlags.importFile, err)
		}
		c.SetText(text)
	}

	if analyzeFlags.pdf != "" {
		doc, err := document.Load(analyzeFlags.pdf)
		if err != nil {
			return nil, err
		}
		c.AttachDocument(doc)
		c.SetMode(model.ModeFile)
	}

	job := analyzeFlags.job
	if analyzeFlags.jobFile != "" {
		data, err := os.ReadFile(analyzeFlags.jobFile)
		if err != nil {
			return nil, fmt.Errorf("read job file: %w", err)
		}
		job = string(data)
	}
	c.SetJobDescription(job)

	return c, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFlags.format != "text" && analyzeFlags.format != "json" {
		return fmt.Errorf("--format must be text or json, got %q", analyzeFlags.format)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	logger := setupLogger(debug, cfg.Log.Level)

	composer, err := composeFromFlags()
	if errors.Is(err, model.ErrUnsupportedDocument) {
		return userError(err)
	}
	if err != nil {
		return err
	}

	sess, closeStore, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	analyzerLogger := logger
	if !analyzeFlags.quiet && !debug {
		analyzerLogger = silentLogger()
	}
	analyzer := setupAnalyzer(cfg, analyzerLogger)

	in := composer.Input()
	var result *model.AnalysisResult
	analyze := func(ctx context.Context) error {
		var err error
		result, err = analyzer.Analyze(ctx, sess, in)
		return err
	}

	if analyzeFlags.quiet {
		err = analyze(context.Background())
	} else {
		err = tui.RunLoader("Analyzing CV...", analyze)
	}
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			return err
		}
		return userError(err)
	}

	if analyzeFlags.format == "json" {
		return report.WriteJSON(os.Stdout, result)
	}
	return report.WriteText(os.Stdout, result)
}
