package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"live-news/pkg/config"
	"live-news/pkg/domain"
	"live-news/pkg/newsclient"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	category := cfg.ViewerCategory()
	if len(os.Args) > 1 {
		category, err = domain.ParseCategory(os.Args[1], domain.General, domain.Technology, domain.Business, domain.Sports, domain.Entertainment)
		if err != nil {
			log.Fatalf("Invalid category: %v", err)
		}
	}

	client := newsclient.New(cfg.Viewer.ServerURL, cfg.Viewer.RequestTimeout)

	articles, err := client.FetchArticles(context.Background(), category)
	if err != nil {
		log.Fatalf("Failed to fetch news: %v", err)
	}

	// Print first 10 articles
	maxArticles := 10
	if len(articles) < maxArticles {
		maxArticles = len(articles)
	}

	fmt.Printf("Found %d %s articles. Showing first %d:\n\n", len(articles), category, maxArticles)

	for i := 0; i < maxArticles; i++ {
		article := articles[i]
		fmt.Printf("Article %d: %s\n", i+1, article.Title)
		fmt.Printf("  URL: %s\n", article.URL)
		if article.HasImage() {
			fmt.Printf("  Image: %s\n", article.Image)
		}
		fmt.Printf("  Summary: %s\n", article.Summary)
		fmt.Println()
	}
}
