// Package model contains domain models passed between pipeline stages.
package model

import "time"

// Article is a news article as delivered by the fetch collaborator.
// Immutable once fetched within a run; URL is the unique key.
type Article struct {
	URL         string
	Title       string
	BodyText    string
	SourceName  string
	Author      string
	PublishedAt time.Time
	FetchedAt   time.Time
}

// TagScore is a classified tag with its computed score, ephemeral and
// recomputed per article.
type TagScore struct {
	TagName string
	Score   float64
}

// UncategorizedTag is the sentinel tag emitted when no taxonomy rule matches.
const UncategorizedTag = "uncategorized"

// DispatchRecord is the immutable, durable output unit of the pipeline.
//
// ID is a deterministic function of (ArticleURL, DatePartition): re-running
// the pipeline over the same article on the same day yields the same ID, so
// writes stay idempotent.
type DispatchRecord struct {
	ID            string    `yaml:"id"`
	ArticleURL    string    `yaml:"article_url"`
	DatePartition string    `yaml:"date"`
	Tags          []string  `yaml:"tags"`
	Voice         string    `yaml:"voice"`
	Title         string    `yaml:"title"`
	Summary       string    `yaml:"summary"`
	SourceName    string    `yaml:"source"`
	CreatedAt     time.Time `yaml:"created_at"`
	Body          string    `yaml:"-"`
}
