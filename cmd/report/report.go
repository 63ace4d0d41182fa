// Package report implements the offline report generator command.
package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dovewatch/dovewatch-go/internal/analytics"
	"github.com/dovewatch/dovewatch-go/internal/conf"
	"github.com/dovewatch/dovewatch-go/internal/datastore"
	"github.com/dovewatch/dovewatch-go/internal/logging"
	"github.com/dovewatch/dovewatch-go/internal/report"
)

var (
	reportType string
	reportDate string
)

// Command creates the report command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate call statistics reports",
		Long:  "Generate daily, weekly or monthly markdown reports from recorded detection events.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&reportType, "type", "all", "Report type: daily, weekly, monthly or all")
	cmd.Flags().StringVar(&reportDate, "date", "", "Target date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&settings.Report.OutputPath, "output", viper.GetString("report.outputpath"), "Directory to write reports into")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func runReport(settings *conf.Settings) error {
	log := logging.ForService("report")

	loc, err := settings.TimeLocation()
	if err != nil {
		return err
	}

	target := time.Now().In(loc)
	if reportDate != "" {
		target, err = analytics.ParseDate(reportDate, loc)
		if err != nil {
			return err
		}
	}

	switch reportType {
	case "daily", "weekly", "monthly", "all":
	default:
		return fmt.Errorf("invalid report type %q, expected daily, weekly, monthly or all", reportType)
	}

	ds, err := datastore.New(settings)
	if err != nil {
		return err
	}
	if err := ds.Open(); err != nil {
		return err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			log.Error("failed to close datastore", "error", err)
		}
	}()

	sink := &report.DirSink{Dir: settings.Report.OutputPath}
	generator := report.New(ds, sink, loc)
	ctx := context.Background()

	type reportFunc struct {
		name string
		run  func(context.Context, time.Time) (string, error)
	}
	reports := []reportFunc{
		{"daily", generator.Daily},
		{"weekly", generator.Weekly},
		{"monthly", generator.Monthly},
	}

	for _, r := range reports {
		if reportType != "all" && reportType != r.name {
			continue
		}
		name, err := r.run(ctx, target)
		if err != nil {
			return err
		}
		fmt.Printf("%s report written: %s\n", r.name, name)
	}

	return nil
}
