// Command hotelctl browses the public listing from a terminal. It fetches
// the complete list once and narrows it locally, like the browser client.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_listing/internal/adapters/hotelsapi"
	"hotel_listing/internal/adapters/observability"
	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	opts, err := parseFlags(os.Args[1:], cfg.HotelsAPIURL)
	if err != nil {
		os.Exit(2)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	cl, err := hotelsapi.New(opts.api, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("client init failed")
	}
	if err := run(ctx, cl, opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("hotelctl failed")
	}
}

type options struct {
	api     string
	timeout time.Duration
	states  bool
	cities  string
	filters app.MirrorFilters
}

func parseFlags(args []string, defaultAPI string) (options, error) {
	o := options{filters: app.DefaultMirrorFilters()}
	fs := flag.NewFlagSet("hotelctl", flag.ContinueOnError)
	fs.StringVar(&o.api, "api", defaultAPI, "listing API base URL")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "overall request budget")
	fs.BoolVar(&o.states, "states", false, "list known states and exit")
	fs.StringVar(&o.cities, "cities", "", "list the cities of `state` and exit")
	fs.StringVar(&o.filters.Search, "search", "", "match name, city or state")
	fs.StringVar(&o.filters.State, "state", "", "exact state")
	fs.StringVar(&o.filters.City, "city", "", "city within the state")
	fs.Float64Var(&o.filters.PriceMin, "min", 0, "minimum nightly price")
	fs.Float64Var(&o.filters.PriceMax, "max", app.MirrorPriceCeiling, "maximum nightly price")
	rule := fs.String("rule", "any", "price rule: any (some room in range) or min (cheapest room in range)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch *rule {
	case "any":
		o.filters.Rule = app.PriceRuleAnyRoom
	case "min":
		o.filters.Rule = app.PriceRuleMinRoom
	default:
		fmt.Fprintf(fs.Output(), "unknown -rule %q\n", *rule)
		return o, fmt.Errorf("unknown rule %q", *rule)
	}
	return o, nil
}

type listingClient interface {
	ListAllHotels(ctx context.Context, q url.Values) ([]domain.HotelView, error)
	States(ctx context.Context) ([]string, error)
	Cities(ctx context.Context, state string) ([]string, error)
}

func run(ctx context.Context, cl listingClient, o options, out io.Writer) error {
	switch {
	case o.states:
		states, err := cl.States(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, strings.Join(states, "\n"))
		return err
	case o.cities != "":
		cities, err := cl.Cities(ctx, o.cities)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, strings.Join(cities, "\n"))
		return err
	}

	all, err := cl.ListAllHotels(ctx, nil)
	if err != nil {
		return err
	}
	shown := app.MirrorFilter(all, o.filters)
	log.Debug().Int("fetched", len(all)).Int("shown", len(shown)).Msg("filtered")
	return printHotels(out, shown)
}

func printHotels(out io.Writer, hotels []domain.HotelView) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tPRICE\tAMENITIES")
	for _, h := range hotels {
		state, price := "-", "-"
		if h.Location != nil {
			state = h.Location.State
		}
		if h.PriceRange != nil {
			price = fmt.Sprintf("%.0f - %.0f", h.PriceRange.Min, h.PriceRange.Max)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", h.ID, h.Name, state, price, len(h.Amenities))
	}
	fmt.Fprintf(tw, "\n%d hotel(s)\n", len(hotels))
	return tw.Flush()
}
