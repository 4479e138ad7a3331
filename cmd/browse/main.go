// Command browse drives the search coordinator against a running API and
// prints one page of results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_search/internal/adapters/hotelsapi"
	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/coordinator"
	"hotel_search/internal/domain"
	"hotel_search/internal/query"
	"hotel_search/internal/shared"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var (
		text      = flag.String("q", "", "text search over name, district and city")
		stars     = flag.String("stars", "", "comma separated star ratings")
		amenities = flag.String("amenities", "", "comma separated amenity keys, all required")
		minPrice  = flag.Int64("min", domain.DefaultMinPrice, "minimum total price in centavos")
		maxPrice  = flag.Int64("max", domain.DefaultMaxPrice, "maximum total price in centavos")
		breakfast = flag.String("breakfast", "", "true or false")
		refund    = flag.String("refundable", "", "true or false")
		city      = flag.String("city", "", "pick the first city matching this name")
		sortBy    = flag.String("sort", domain.SortTotalPrice, "sort key")
		order     = flag.String("order", string(domain.Asc), "asc or desc")
		limit     = flag.Int("limit", cfg.DefaultLimit, "items per page")
		page      = flag.Int("page", 1, "page to show")
		base      = flag.String("api", cfg.APIBaseURL, "API base URL")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := coordinator.New(hotelsapi.New(*base, cfg.APIRPS), coordinator.WithLimit(*limit))
	defer c.Close()
	if err := c.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("init failed")
	}

	c.UpdateFilters(func(f *domain.FilterState) {
		f.MinPrice, f.MaxPrice = *minPrice, *maxPrice
		f.Stars = split(*stars)
		f.Amenities = split(*amenities)
		f.HasBreakFast = flag3(*breakfast)
		f.HasRefundableRoom = flag3(*refund)
	})
	if *city != "" {
		if err := c.SearchCities(ctx, *city); err != nil {
			log.Fatal().Err(err).Msg("city search failed")
		}
		if cs := c.Snapshot().Cities; len(cs) > 0 {
			c.SelectCity(cs[0])
		} else {
			log.Warn().Str("city", *city).Msg("no city matched")
		}
	}
	c.Settle()

	if err := c.UpdateSort(ctx, domain.SortOption{Key: *sortBy, Direction: domain.Direction(*order)}); err != nil {
		log.Fatal().Err(err).Msg("sort rejected")
	}
	if *text != "" {
		if err := c.SearchHotels(ctx, *text); err != nil {
			log.Fatal().Err(err).Msg("search failed")
		}
	} else if *page > 1 {
		if err := c.GoToPage(ctx, *page); err != nil {
			log.Fatal().Err(err).Msg("page fetch failed")
		}
	}

	render(c.Snapshot(), c.PriceSummary())
}

func render(st coordinator.State, ps query.PriceSummary) {
	if st.Err != "" {
		fmt.Fprintln(os.Stderr, st.Err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTARS\tDISTRICT\tTOTAL\tAMENITIES")
	for _, h := range st.Hotels {
		labels := make([]string, len(h.Amenities))
		for i, a := range h.Amenities {
			labels[i] = domain.AmenityLabel(a)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			h.ID, h.Name, h.Stars, h.District, domain.FormatBRL(h.TotalPrice), strings.Join(labels, ", "))
	}
	_ = w.Flush()

	p := st.Pagination
	fmt.Printf("\npage %d/%d, %d hotels, %d active filters\n", p.CurrentPage, p.TotalPages, p.Total, st.Filters.ActiveCount())
	if len(st.Hotels) > 0 {
		fmt.Printf("prices on this page: min %s, median %s, avg %s, max %s\n",
			domain.FormatBRL(ps.Min), domain.FormatBRL(ps.Median), domain.FormatBRL(ps.Avg), domain.FormatBRL(ps.Max))
	}
	if st.Degraded {
		fmt.Println("(results from local search)")
	}
}

func split(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func flag3(v string) *bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
