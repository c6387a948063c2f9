package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"live-news/pkg/cache"
	"live-news/pkg/config"
	"live-news/pkg/pipeline"
	"live-news/pkg/push"
	"live-news/pkg/refresh"
	"live-news/pkg/server"
	"live-news/pkg/summarizer"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	cfgFile string
	addr    string
)

var rootCmd = &cobra.Command{
	Use:   "newsd",
	Short: "Live summarized news server",
	Long: `newsd polls one RSS feed per category, summarizes every entry and serves
the result over HTTP. Each refresh is pushed to viewers on /events.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is ./live-news.yaml)")
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := buildSummarizer(cfg.Summarizer)
	p := pipeline.RSSPipelineBuilder(pipeline.Options{
		Feeds:          cfg.Feeds,
		MaxItems:       cfg.Pipeline.MaxItems,
		HostInterval:   cfg.Pipeline.HostInterval,
		ContentWorkers: cfg.Pipeline.ContentWorkers,
		FeedWorkers:    cfg.Pipeline.FeedWorkers,
		Enrich:         cfg.Pipeline.Enrich,
		MinTextChars:   cfg.Pipeline.MinTextChars,
	}, s)

	store := cache.NewNewsCache()
	hub := push.NewHub(cfg.Server.PushBuffer)

	refresher := refresh.NewService(refresh.Config{
		Collector: p,
		Store:     store,
		Publisher: hub,
		Interval:  cfg.Refresh.Interval,
	})
	srv := server.New(store, hub, s, server.Config{
		Addr:      cfg.Server.Addr,
		Heartbeat: cfg.Server.Heartbeat,
	})

	log.Printf("Starting newsd: %d feeds, refresh every %s", len(p.Sources()), refresher.Interval())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return refresher.Run(ctx) })
	g.Go(func() error { return srv.Run(ctx) })
	return g.Wait()
}

func buildSummarizer(cfg config.SummarizerConfig) summarizer.Summarizer {
	lead := summarizer.NewLead(cfg.MaxSentences, cfg.MaxChars)
	if cfg.Endpoint == "" {
		return lead
	}
	log.Printf("Using remote summarizer at %s", cfg.Endpoint)
	return &summarizer.Fallback{
		Primary:   summarizer.NewRemote(cfg.Endpoint, cfg.Timeout),
		Secondary: lead,
	}
}
