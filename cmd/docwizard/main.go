package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-docwizard/pkg/catalog"
	"github.com/goliatone/go-docwizard/pkg/dictionary"
	"github.com/goliatone/go-docwizard/pkg/orchestrator"
	"github.com/goliatone/go-docwizard/pkg/preview"
	"github.com/goliatone/go-docwizard/pkg/tui"
)

type options struct {
	catalogPath    string
	documentID     int
	list           bool
	search         string
	format         string
	policy         string
	output         string
	dictionaryPath string
	presetPath     string
	noNormalize    bool
	verbose        bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "docwizard: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var opts options
	flags := pflag.NewFlagSet("docwizard", pflag.ContinueOnError)
	flags.StringVarP(&opts.catalogPath, "catalog", "c", "catalog.json", "catalog file (JSON, JSONC or YAML)")
	flags.IntVarP(&opts.documentID, "document", "d", 0, "id of the document to fill in")
	flags.BoolVarP(&opts.list, "list", "l", false, "list catalog documents and exit")
	flags.StringVarP(&opts.search, "search", "s", "", "filter the listing by title, code or category")
	flags.StringVarP(&opts.format, "format", "f", "json", "answer output format: json or pretty")
	flags.StringVar(&opts.policy, "policy", "advisory", "validation policy: advisory or blocking")
	flags.StringVarP(&opts.output, "output", "o", "", "write answers to this file instead of stdout")
	flags.StringVar(&opts.dictionaryPath, "dictionary", "", "YAML dictionary file replacing the bundled lists")
	flags.StringVar(&opts.presetPath, "preset", "", "JSON preset overriding step titles and field labels")
	flags.BoolVar(&opts.noNormalize, "no-normalize", false, "keep legacy person steps as they are")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log wizard transitions to stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := catalog.LoadFile(ctx, opts.catalogPath)
	if err != nil {
		return err
	}
	if opts.list || opts.documentID == 0 {
		return listDocuments(stdout, store, opts.search)
	}

	doc, err := store.Get(opts.documentID)
	if err != nil {
		return err
	}

	dict, err := loadDictionary(opts.dictionaryPath)
	if err != nil {
		return err
	}
	engine, err := preview.New(preview.WithDictionary(dict))
	if err != nil {
		return err
	}

	wizardOpts, err := wizardOptions(opts, dict, logger)
	if err != nil {
		return err
	}
	w, err := orchestrator.New(doc, wizardOpts...)
	if err != nil {
		return err
	}

	runner := tui.New(
		tui.WithOutputFormat(tui.ParseOutputFormat(opts.format)),
		tui.WithPreview(engine),
		tui.WithLogger(logger),
	)
	out, err := runner.Run(ctx, w)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(stdout, "Answers written to %s\n", opts.output)
		return nil
	}
	_, err = stdout.Write(out)
	return err
}

func wizardOptions(opts options, dict dictionary.Provider, logger logrus.FieldLogger) ([]orchestrator.Option, error) {
	out := []orchestrator.Option{
		orchestrator.WithValidationPolicy(orchestrator.ParsePolicy(opts.policy)),
		orchestrator.WithDictionary(dict),
		orchestrator.WithLogger(logger),
	}
	if opts.noNormalize {
		out = append(out, orchestrator.WithoutNormalization())
	}
	if opts.presetPath != "" {
		preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS(filepath.Dir(opts.presetPath)), filepath.Base(opts.presetPath))
		if err != nil {
			return nil, err
		}
		out = append(out, orchestrator.WithTransformers(preset))
	}
	return out, nil
}

func listDocuments(out io.Writer, store *catalog.Store, query string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tTITLE\tCATEGORY")
	for _, doc := range store.Search(query) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", doc.ID, doc.Code, doc.Title, doc.Category)
	}
	return tw.Flush()
}

func loadDictionary(path string) (dictionary.Provider, error) {
	if path == "" {
		return dictionary.Default(), nil
	}
	return dictionary.LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
