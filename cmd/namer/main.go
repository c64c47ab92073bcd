// Package main boots the naming service and exposes it as a CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/easeaico/shiming/internal/config"
	"github.com/easeaico/shiming/internal/corpus"
	"github.com/easeaico/shiming/internal/enrich"
	"github.com/easeaico/shiming/internal/service"
	"github.com/easeaico/shiming/internal/storage"
	"github.com/easeaico/shiming/internal/types"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	snap, err := corpus.Load(ctx, store.Corpus)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}
	index := corpus.NewIndex(snap)

	explainer := enrich.NewExplainer()
	if err := explainer.Configure(ctx, cfg.EnrichConfig()); err != nil {
		slog.Warn("enrichment unavailable, continuing without explanations", "error", err.Error())
	}

	svc := service.New(index, store.Names, store.Favorites, explainer)

	switch command {
	case "generate":
		generateCmd(ctx, svc, os.Args[2:])
	case "search":
		searchCmd(ctx, svc, os.Args[2:])
	case "status":
		printJSON(svc.EnrichmentStatus())
	default:
		fmt.Printf("unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`shiming namer - classical poetry name recommendation CLI

Usage:
  namer <command> [flags]

Commands:
  generate    Generate name candidates
  search      Search previously generated names
  status      Show enrichment status
  help        Show this help message

Examples:
  namer generate -surname 王 -gender M -length 2 -count 5
  namer generate -surname 李 -gender F -length 2 -tags 高雅,聪慧 -tone ping
  namer search -keyword 彦 -gender M -limit 10`)
}

func generateCmd(ctx context.Context, svc *service.NameService, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	surname := fs.String("surname", "", "Surname glyph; random common surname when empty")
	gender := fs.String("gender", "", "Gender, M or F")
	length := fs.Int("length", 2, "Given name length in characters (1-3)")
	count := fs.Int("count", 5, "Number of candidates (1-20)")
	tags := fs.String("tags", "", "Comma-separated meaning tags")
	tone := fs.String("tone", "", "Tone preference: ping, ze or unknown")
	seed := fs.Int64("seed", 0, "Random seed for reproducible output")
	user := fs.String("user", "", "User ID for history and personalization")
	personalize := fs.Bool("personalize", false, "Re-rank by favorite history")
	zodiac := fs.String("zodiac", "", "Birth zodiac animal, e.g. rat")
	hour := fs.String("hour", "", "Birth hour branch, e.g. zi")
	month := fs.Int("month", 0, "Birth month 1-12")
	calendar := fs.String("calendar", "", "Birth calendar: lunar or solar")
	_ = fs.Parse(args)

	req := types.GenerationRequest{
		Surname:        *surname,
		Gender:         types.Gender(*gender),
		Length:         *length,
		Count:          *count,
		TonePreference: types.TonePreference(*tone),
		Personalize:    *personalize,
		UserID:         *user,
	}
	if *tags != "" {
		req.MeaningTags = strings.Split(*tags, ",")
	}
	if *seed != 0 {
		req.Seed = seed
	}
	if *zodiac != "" || *hour != "" || *month != 0 || *calendar != "" {
		req.Birth = &types.BirthContext{
			Zodiac:   *zodiac,
			Hour:     *hour,
			Month:    *month,
			Calendar: types.CalendarKind(*calendar),
		}
	}

	result, err := svc.Generate(ctx, req)
	if err != nil {
		if verrs, ok := types.AsValidation(err); ok {
			for _, v := range verrs {
				fmt.Fprintf(os.Stderr, "invalid %s: %s\n", v.Field, v.Message)
			}
			os.Exit(1)
		}
		log.Fatalf("generation failed: %v", err)
	}
	printJSON(result)
}

func searchCmd(ctx context.Context, svc *service.NameService, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	keyword := fs.String("keyword", "", "Keyword over given name, meaning and origin")
	gender := fs.String("gender", "", "Gender filter, M or F")
	surname := fs.String("surname", "", "Surname filter")
	tags := fs.String("tags", "", "Comma-separated tag filter")
	limit := fs.Int("limit", 0, "Result limit (1-100, default 20)")
	_ = fs.Parse(args)

	filter := types.SearchFilter{
		Keyword: *keyword,
		Gender:  types.Gender(*gender),
		Surname: *surname,
		Limit:   *limit,
	}
	if *tags != "" {
		filter.Tags = strings.Split(*tags, ",")
	}

	names, err := svc.Search(ctx, filter)
	if err != nil {
		if verrs, ok := types.AsValidation(err); ok {
			for _, v := range verrs {
				fmt.Fprintf(os.Stderr, "invalid %s: %s\n", v.Field, v.Message)
			}
			os.Exit(1)
		}
		log.Fatalf("search failed: %v", err)
	}
	printJSON(names)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode output: %v", err)
	}
	fmt.Println(string(out))
}
