package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortsentinel/dispatch/internal/adapters/newsapi"
	"github.com/fortsentinel/dispatch/internal/config"
	"github.com/fortsentinel/dispatch/internal/domain/model"
)

const articleFilePermission = 0o644

// articleBatchFile is the on-disk handoff between fetch and generate.
type articleBatchFile struct {
	Timestamp time.Time     `json:"timestamp"`
	Count     int           `json:"count"`
	Articles  []articleJSON `json:"articles"`
}

type articleJSON struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	BodyText    string    `json:"body_text"`
	SourceName  string    `json:"source_name"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`
}

func toArticleJSON(a model.Article) articleJSON {
	return articleJSON{
		URL:         a.URL,
		Title:       a.Title,
		BodyText:    a.BodyText,
		SourceName:  a.SourceName,
		Author:      a.Author,
		PublishedAt: a.PublishedAt,
		FetchedAt:   a.FetchedAt,
	}
}

func fromArticleJSON(a articleJSON) model.Article {
	return model.Article{
		URL:         a.URL,
		Title:       a.Title,
		BodyText:    a.BodyText,
		SourceName:  a.SourceName,
		Author:      a.Author,
		PublishedAt: a.PublishedAt,
		FetchedAt:   a.FetchedAt,
	}
}

// NewFetchCommand fetches a news batch and writes it to a JSON file.
func NewFetchCommand() *cobra.Command {
	var (
		topic    string
		general  bool
		country  string
		category string
		limit    int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch news articles into a batch file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if topic == "" && !general {
				return fmt.Errorf("either --topic or --general must be specified")
			}

			client, err := newsapi.NewClient(cfg.NewsAPIKey,
				newsapi.WithBaseURL(cfg.NewsAPIBaseURL),
				newsapi.WithPageSize(limit),
			)
			if err != nil {
				return err
			}

			var articles []model.Article
			if general {
				articles, err = client.TopHeadlines(ctx, country, category)
			} else {
				articles, err = client.Search(ctx, topic)
			}
			if err != nil {
				return err
			}

			batch := articleBatchFile{
				Timestamp: time.Now(),
				Count:     len(articles),
				Articles:  make([]articleJSON, len(articles)),
			}
			for i, a := range articles {
				batch.Articles[i] = toArticleJSON(a)
			}

			raw, err := json.MarshalIndent(batch, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, raw, articleFilePermission); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			cmd.Printf("fetched %d articles to %s\n", len(articles), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "search topic/keywords")
	cmd.Flags().BoolVarP(&general, "general", "g", false, "fetch top headlines instead of topic search")
	cmd.Flags().StringVarP(&country, "country", "c", "us", "country code for general news")
	cmd.Flags().StringVar(&category, "category", "", "category for general news")
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of articles to fetch")
	cmd.Flags().StringVarP(&output, "output", "o", "articles.json", "output JSON file")
	return cmd
}
