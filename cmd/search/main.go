package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/couchcryptid/realestate-search-service/internal/adapter/homeharvest"
	"github.com/couchcryptid/realestate-search-service/internal/domain"
	"github.com/couchcryptid/realestate-search-service/internal/export"
	"github.com/couchcryptid/realestate-search-service/internal/observability"
	"github.com/couchcryptid/realestate-search-service/internal/pipeline"
	"github.com/urfave/cli/v2"
)

// Output formats.
const (
	formatJSON  = "json"
	formatTable = "table"
	formatXLSX  = "xlsx"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "search",
		Usage:     "Search real estate listings through the HomeHarvest scraper",
		ArgsUsage: "LOCATION",
		Flags:     searchFlags(),
		Before:    setupLogger,
		Action:    searchCommand,
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "Set logging level (debug, info, warn, error); unknown values mean info",
			Value:   "warn",
		},
		&cli.StringFlag{
			Name:    "scraper-url",
			Usage:   "HomeHarvest sidecar base URL",
			Value:   "http://localhost:8001",
			EnvVars: []string{"SCRAPER_URL"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Scraper request timeout",
			Value:   60 * time.Second,
			EnvVars: []string{"SCRAPER_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (json, table, xlsx)",
			Value:   formatJSON,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to this file instead of stdout (required for xlsx)",
		},
		&cli.StringSliceFlag{
			Name:  "columns",
			Usage: "Columns for table and xlsx output (default: summary for table, all for xlsx)",
		},

		&cli.StringFlag{Name: "listing-type", Aliases: []string{"t"}, Usage: "for_sale, for_rent, sold, pending or off_market", Value: string(domain.ListingForSale)},
		&cli.IntFlag{Name: "past-days", Usage: "Only listings from the past N days"},
		&cli.IntFlag{Name: "past-hours", Usage: "Only listings from the past N hours"},
		&cli.StringFlag{Name: "date-from", Usage: "Start date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "date-to", Usage: "End date (YYYY-MM-DD)"},
		&cli.IntFlag{Name: "beds-min"},
		&cli.IntFlag{Name: "beds-max"},
		&cli.Float64Flag{Name: "baths-min"},
		&cli.Float64Flag{Name: "baths-max"},
		&cli.IntFlag{Name: "sqft-min"},
		&cli.IntFlag{Name: "sqft-max"},
		&cli.IntFlag{Name: "price-min"},
		&cli.IntFlag{Name: "price-max"},
		&cli.IntFlag{Name: "year-built-min"},
		&cli.IntFlag{Name: "year-built-max"},
		&cli.IntFlag{Name: "lot-sqft-min"},
		&cli.IntFlag{Name: "lot-sqft-max"},
		&cli.StringFlag{Name: "property-type", Usage: "single_family, multi_family, condo, townhouse, land or other"},
		&cli.Float64Flag{Name: "radius", Aliases: []string{"r"}, Usage: "Radius in miles; filters and sorts by distance"},
		&cli.StringFlag{Name: "sort-by", Usage: "list_date, list_price, sqft, beds, baths or last_update_date"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of results (1-10000)"},
		&cli.IntFlag{Name: "offset", Usage: "Skip this many results"},
		&cli.BoolFlag{Name: "parallel", Usage: "Let the scraper fetch pages in parallel"},
	}
}

// setupLogger sends CLI logs to stderr so stdout stays clean for results.
func setupLogger(c *cli.Context) error {
	observability.NewLoggerTo(os.Stderr, c.String("log-level"), "text")
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("exactly one LOCATION argument is required", 2)
	}

	format := c.String("format")
	cols, err := outputColumns(format, c.StringSlice("columns"))
	if err != nil {
		return cli.Exit(err, 2)
	}
	if format == formatXLSX && c.String("output") == "" {
		return cli.Exit("--output is required for xlsx", 2)
	}

	logger := slog.Default()
	metrics := observability.NewMetrics()
	client := homeharvest.NewClient(strings.TrimRight(c.String("scraper-url"), "/"), c.Duration("timeout"), metrics, logger)
	p := pipeline.New(client, nil, logger, metrics)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Search(ctx, paramsFromFlags(c))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return cli.Exit(err, 2)
		}
		return cli.Exit(err, 1)
	}

	return writeOutput(c.String("output"), format, result, cols)
}

func outputColumns(format string, requested []string) ([]string, error) {
	switch format {
	case formatJSON:
		return nil, nil
	case formatTable, formatXLSX:
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	if len(requested) > 0 {
		return requested, export.ValidateColumns(requested)
	}
	if format == formatTable {
		return export.SummaryColumns, nil
	}
	return export.AllColumns(), nil
}

func paramsFromFlags(c *cli.Context) domain.SearchParams {
	p := domain.SearchParams{
		Location:    c.Args().First(),
		ListingType: domain.ListingType(c.String("listing-type")),
	}

	p.PastDays = intFlag(c, "past-days")
	p.PastHours = intFlag(c, "past-hours")
	p.DateFrom = stringFlag(c, "date-from")
	p.DateTo = stringFlag(c, "date-to")
	p.BedsMin = intFlag(c, "beds-min")
	p.BedsMax = intFlag(c, "beds-max")
	p.BathsMin = floatFlag(c, "baths-min")
	p.BathsMax = floatFlag(c, "baths-max")
	p.SqftMin = intFlag(c, "sqft-min")
	p.SqftMax = intFlag(c, "sqft-max")
	p.PriceMin = intFlag(c, "price-min")
	p.PriceMax = intFlag(c, "price-max")
	p.YearBuiltMin = intFlag(c, "year-built-min")
	p.YearBuiltMax = intFlag(c, "year-built-max")
	p.LotSqftMin = intFlag(c, "lot-sqft-min")
	p.LotSqftMax = intFlag(c, "lot-sqft-max")
	if v := stringFlag(c, "property-type"); v != nil {
		pt := domain.PropertyType(*v)
		p.PropertyType = &pt
	}
	p.Radius = floatFlag(c, "radius")
	if v := stringFlag(c, "sort-by"); v != nil {
		sb := domain.SortBy(*v)
		p.SortBy = &sb
	}
	p.Limit = intFlag(c, "limit")
	p.Offset = intFlag(c, "offset")
	if c.IsSet("parallel") {
		v := c.Bool("parallel")
		p.Parallel = &v
	}
	return p
}

func intFlag(c *cli.Context, name string) *int {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Int(name)
	return &v
}

func floatFlag(c *cli.Context, name string) *float64 {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Float64(name)
	return &v
}

func stringFlag(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

func writeOutput(path, format string, result domain.SearchResult, cols []string) (err error) {
	var w io.Writer = os.Stdout
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	switch format {
	case formatTable:
		return export.WriteTable(w, result.Properties, cols)
	case formatXLSX:
		return export.WriteXLSX(w, result.Properties, cols)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
}
