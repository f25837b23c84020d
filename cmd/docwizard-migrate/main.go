package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-docwizard/pkg/catalog"
	"github.com/goliatone/go-docwizard/pkg/normalize"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logrus.WithError(err).Error("migration failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("docwizard-migrate", pflag.ContinueOnError)
	in := flags.StringP("in", "i", "", "catalog to migrate")
	out := flags.StringP("out", "o", "", "where to write the migrated catalog (defaults to -in)")
	dryRun := flags.Bool("dry-run", false, "print the report without writing")
	limit := flags.Int("limit", 20, "documents listed in the report (0 for all)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	if *out == "" {
		*out = *in
	}

	store, err := catalog.LoadFile(ctx, *in)
	if err != nil {
		return err
	}
	migrated, report := normalize.Catalog(store.List())
	if err := report.WriteText(stdout, *limit); err != nil {
		return err
	}

	log := logrus.WithFields(logrus.Fields{"in": *in, "converted": report.Converted})
	if *dryRun {
		log.Info("dry run, catalog left untouched")
		return nil
	}

	next, err := catalog.NewStore(migrated)
	if err != nil {
		return fmt.Errorf("build migrated catalog: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := next.Save(*out); err != nil {
		return err
	}
	log.WithField("out", *out).Info("catalog migrated")
	return nil
}
