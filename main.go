package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bestprice_client/api"
	"bestprice_client/config"
	"bestprice_client/deals"
	"bestprice_client/httputil"
	"bestprice_client/logging"
	"bestprice_client/offers"
	"bestprice_client/pricehistory"
	"bestprice_client/session"
	"bestprice_client/storage"
	"bestprice_client/watchlist"
)

var (
	searchQuery = flag.String("search", "", "Submit a search and print the first page of offers")
	pageNum     = flag.Int("page", 0, "With -search: jump to this page after the first fetch")
	sourceOnly  = flag.String("source", "", "With -search: restrict offers to one source")
	historyFor  = flag.Int64("history", 0, "Print price history and stats for an offer id")
	showDeals   = flag.Bool("deals", false, "Print recent deals and exit")
	showWatch   = flag.Bool("watchlist", false, "Print the watchlist and exit")
	watchDeals  = flag.Bool("watch-deals", false, "Keep running and refresh the deals feed on schedule")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting bestprice client...")

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer store.Close()
	log.Printf("Local store: %s", cfg.DBPath)

	hc := httputil.NewClient(&cfg.API)
	client := api.NewClient(cfg.API.BaseURL, hc, func() string {
		token, err := store.GetToken()
		if err != nil {
			log.Printf("Token read failed: %v", err)
			return ""
		}
		return token
	})
	log.Printf("API: %s", cfg.API.BaseURL)

	sess := session.NewManager(client, store)
	watch := watchlist.NewSynchronizer(client, sess)
	sess.OnChange(watch.OnAuthChange)

	debounce := time.Duration(cfg.Offers.DebounceMS) * time.Millisecond
	controller := offers.NewController(client, store, cfg.Offers.PageSize, debounce)
	defer controller.Stop()

	history := pricehistory.NewAggregator(client)
	dealService := deals.NewService(client)

	ctx := context.Background()

	if err := sess.Bootstrap(ctx); err != nil {
		log.Printf("Session bootstrap failed: %v", err)
	}

	if !sess.IsAuthenticated() {
		username := os.Getenv("BESTPRICE_USERNAME")
		password := os.Getenv("BESTPRICE_PASSWORD")
		if username != "" && password != "" {
			if err := sess.Login(ctx, username, password); err != nil {
				log.Fatalf("Login failed: %v", err)
			}
		}
	}

	if user := sess.User(); user != nil {
		log.Printf("Signed in as %s <%s>", user.Username, user.Email)
	} else {
		log.Println("Not signed in; authenticated features are unavailable")
	}

	switch {
	case *searchQuery != "":
		if !cfg.KnownSource(*sourceOnly) {
			log.Fatalf("Unknown source %q; configured sources are in config/sources/", *sourceOnly)
		}
		runSearch(ctx, controller, watch)

	case *historyFor != 0:
		runHistory(ctx, history, *historyFor)

	case *showDeals:
		runDeals(ctx, dealService)

	case *showWatch:
		runWatchlist(ctx, watch)

	case *watchDeals:
		refresher := deals.NewRefresher(&cfg.Deals, dealService)
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		if _, err := dealService.Refresh(ctx); err != nil {
			log.Printf("Initial deals refresh failed: %v", err)
		}
		if err := refresher.Start(ctx); err != nil {
			log.Fatalf("Failed to start deals refresher: %v", err)
		}
		defer refresher.Stop()

		log.Println("Deals refresher running. Press Ctrl+C to stop.")
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")

	default:
		flag.Usage()
	}
}

func runSearch(ctx context.Context, controller *offers.Controller, watch *watchlist.Synchronizer) {
	if err := controller.SubmitSearch(ctx, *searchQuery); err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	if *sourceOnly != "" {
		if err := controller.SetTextFilters(ctx, offers.TextFilters{Source: *sourceOnly}); err != nil {
			log.Fatalf("Filter failed: %v", err)
		}
	}

	if *pageNum > 1 {
		if err := controller.ChangePage(ctx, *pageNum); err != nil {
			log.Fatalf("Page change failed: %v", err)
		}
	}

	if err := watch.EnsureLoaded(ctx); err != nil {
		log.Printf("Watchlist load failed: %v", err)
	}

	page := controller.Page()
	if page == nil || len(page.Offers) == 0 {
		fmt.Println("No offers found. Try adjusting your search terms or filters.")
		return
	}

	filters := controller.Filters()
	fmt.Printf("Page %d/%d (%d offers total, sorted by %s %s)\n\n",
		page.Pagination.Page, page.Pagination.TotalPages,
		page.Pagination.TotalCount, filters.SortBy, filters.SortOrder)

	for _, offer := range page.Offers {
		marker := " "
		if watch.IsWatched(offer.ID) {
			marker = "*"
		}
		rating := "-"
		if offer.Rating != nil {
			rating = fmt.Sprintf("%.1f", *offer.Rating)
		}
		fmt.Printf("%s [%d] %s\n    %s %.2f | %s | rating %s | %s\n",
			marker, offer.ID, offer.Title, offer.Currency, offer.LastPrice,
			offer.Source, rating, offer.URL)
	}
}

func runHistory(ctx context.Context, history *pricehistory.Aggregator, offerID int64) {
	points, err := history.FetchHistory(ctx, offerID)
	if err != nil {
		log.Fatalf("Could not retrieve price history: %v", err)
	}

	if len(points) == 0 {
		fmt.Println("No price history available for this offer.")
		return
	}

	stats, _ := pricehistory.ComputeStats(points)
	fmt.Printf("Samples: %d  min %.2f  max %.2f  avg %.2f  change %+.2f (%+.1f%%)\n\n",
		stats.Samples, stats.Min, stats.Max, stats.Average,
		stats.TotalChange, stats.TotalChangePercent)

	for _, d := range pricehistory.Deltas(points) {
		line := fmt.Sprintf("%s  %.2f", d.Point.FetchedAt.Format("2006-01-02"), d.Point.Price)
		if d.HasPrevious {
			line += fmt.Sprintf("  %+.2f (%+.1f%%)", d.Change, d.Percent)
		}
		fmt.Println(line)
	}
}

func runDeals(ctx context.Context, service *deals.Service) {
	feed, err := service.Refresh(ctx)
	if err != nil {
		log.Fatalf("Could not fetch deals: %v", err)
	}

	if len(feed) == 0 {
		fmt.Println("No recent deals.")
		return
	}

	for _, deal := range feed {
		fmt.Printf("[%d] %s\n    %s %.2f (%.0f%% below avg %.2f) | %s\n",
			deal.ID, deal.Title, deal.Currency, deal.LastPrice,
			deal.DiscountPercentage, deal.AvgPrice, deal.Source)
	}
}

func runWatchlist(ctx context.Context, watch *watchlist.Synchronizer) {
	if err := watch.EnsureLoaded(ctx); err != nil {
		log.Fatalf("Could not fetch watchlist: %v", err)
	}

	items := watch.Items()
	if len(items) == 0 {
		fmt.Println("Your watchlist is empty.")
		return
	}

	fmt.Printf("%d items saved\n\n", len(items))
	for _, item := range items {
		price := "-"
		if item.CurrentPrice != nil {
			price = fmt.Sprintf("%.2f", *item.CurrentPrice)
		}
		fmt.Printf("[offer %d] %s\n    %s | %s | %s\n",
			item.OfferID, item.ProductTitle, price, item.Source, item.ProductURL)
	}
}
