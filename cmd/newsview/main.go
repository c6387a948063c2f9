package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"live-news/pkg/config"
	"live-news/pkg/domain"
	"live-news/pkg/newsclient"
	"live-news/pkg/push"
	"live-news/pkg/tui"
	"live-news/pkg/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	serverURL string
	category  string
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "newsview",
	Short: "Terminal viewer for the live news server",
	Long: `newsview shows the summarized articles of one category at a time and
follows the server's news_update pushes for the selected category.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is ./live-news.yaml)")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "news server base URL (overrides viewer.server_url)")
	rootCmd.Flags().StringVar(&category, "category", "", "initial category (overrides viewer.category)")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write logs to this file instead of discarding them")
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
	if cmd.Flags().Changed("server") {
		cfg.Viewer.ServerURL = serverURL
	}

	initial := cfg.ViewerCategory()
	if cmd.Flags().Changed("category") {
		initial, err = domain.ParseCategory(category, domain.Categories...)
		if err != nil {
			return err
		}
	}

	// Log lines would tear the alt screen apart
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "newsview")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	client := newsclient.New(cfg.Viewer.ServerURL, cfg.Viewer.RequestTimeout)
	sub := push.NewSubscriber(client.EventsURL(), cfg.Viewer.ReconnectDelay)
	notifier := tui.NewNotifier()

	synchronizer, err := view.New(client, sub,
		view.WithInitialCategory(initial),
		view.WithRequestTimeout(cfg.Viewer.RequestTimeout),
		view.WithOnChange(notifier.Notify),
	)
	if err != nil {
		return err
	}
	defer synchronizer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sub.Run(ctx)

	p := tea.NewProgram(tui.New(synchronizer, notifier), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
