// Package dispatch builds immutable dispatch records from classified
// articles.
package dispatch

import (
	"context"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"github.com/fortsentinel/dispatch/internal/domain/model"
	"github.com/fortsentinel/dispatch/internal/domain/route"
)

// Builder defaults.
const (
	defaultBodyLimit    = 600 // runes of article body kept in the templated fallback
	defaultSummaryLimit = 200

	idLength        = 13
	partitionLayout = "2006-01-02"
)

// idEncoding is unpadded lowercase base32; ids end up in file names, so they
// must be short, printable and case-stable.
var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Builder assembles dispatch records. Pure transformation: persistence is
// the store's job.
type Builder struct {
	bodyLimit    int
	summaryLimit int
	clock        func() time.Time
}

// NewBuilder creates a builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		bodyLimit:    defaultBodyLimit,
		summaryLimit: defaultSummaryLimit,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Partition formats t as the UTC calendar-day partition key.
func Partition(t time.Time) string {
	return t.UTC().Format(partitionLayout)
}

// ID derives the deterministic record identity from the article URL and the
// partition day. Identical inputs always produce identical ids; that is what
// keeps re-runs over overlapping article sets idempotent.
func ID(articleURL, partition string) string {
	h := fnv.New64a()
	h.Write([]byte(articleURL))
	h.Write([]byte{'\n'})
	h.Write([]byte(partition))

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h.Sum64())
	return strings.ToLower(idEncoding.EncodeToString(buf[:]))[:idLength]
}

// Build combines a classified article, its routed voice and an optional
// rewrite into a dispatch record. rewrite may be empty; the templated
// fallback body is used in that case.
func (b *Builder) Build(ctx context.Context, article model.Article, scores []model.TagScore, voice route.Voice, rewrite string) (model.DispatchRecord, error) {
	if err := validateURL(article.URL); err != nil {
		return model.DispatchRecord{}, err
	}
	if !voice.Valid() {
		return model.DispatchRecord{}, fmt.Errorf("%w: %q", ErrUnknownVoice, voice)
	}

	now := b.clock()
	partition := Partition(now)

	tags := make([]string, len(scores))
	for i, s := range scores {
		tags[i] = s.TagName
	}

	body := strings.TrimSpace(rewrite)
	if body == "" {
		body = b.templatedBody(article, voice)
	}

	return model.DispatchRecord{
		ID:            ID(article.URL, partition),
		ArticleURL:    article.URL,
		DatePartition: partition,
		Tags:          tags,
		Voice:         voice.String(),
		Title:         article.Title,
		Summary:       b.summarize(article),
		SourceName:    article.SourceName,
		CreatedAt:     now,
		Body:          body,
	}, nil
}

// templatedBody frames the article text with the voice's tone label. The
// emotional framing is declarative text substitution, not inference.
func (b *Builder) templatedBody(article model.Article, voice route.Voice) string {
	var sb strings.Builder
	sb.WriteString(voice.ToneLabel())
	sb.WriteString("\n\n")
	sb.WriteString(article.Title)
	text := strings.TrimSpace(article.BodyText)
	if text != "" {
		sb.WriteString("\n\n")
		sb.WriteString(truncateRunes(text, b.bodyLimit))
	}
	return sb.String()
}

func (b *Builder) summarize(article model.Article) string {
	text := strings.TrimSpace(article.BodyText)
	if text == "" {
		return article.Title
	}
	// First sentence if it fits, otherwise a hard rune cut.
	if i := strings.IndexAny(text, ".!?"); i >= 0 && i < b.summaryLimit {
		return article.Title + ". " + text[:i+1]
	}
	return article.Title + ". " + truncateRunes(text, b.summaryLimit)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidArticle)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArticle, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url %q has no scheme or host", ErrInvalidArticle, raw)
	}
	return nil
}
