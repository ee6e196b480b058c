// Package classify scores articles against the tag taxonomy.
package classify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/fortsentinel/dispatch/internal/domain/model"
	"github.com/fortsentinel/dispatch/pkg/metrics"
)

// Default classification weights. Title hits count double because headline
// vocabulary is a far stronger signal than body prose.
const (
	defaultTitleWeight = 2.0
	defaultBodyWeight  = 1.0
)

// Tag is a single taxonomy entry: a named rule mapping keywords to a weight.
type Tag struct {
	Name     string
	Keywords []string
	Weight   float64
}

// Taxonomy is the fixed, validated set of tags loaded once per run.
// Declaration order is significant: it breaks score ties deterministically.
type Taxonomy struct {
	tags []Tag
}

// NewTaxonomy validates and freezes a taxonomy.
func NewTaxonomy(tags []Tag) (*Taxonomy, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no tags defined", ErrInvalidTaxonomy)
	}
	seen := make(map[string]bool, len(tags))
	for i, t := range tags {
		switch {
		case strings.TrimSpace(t.Name) == "":
			return nil, fmt.Errorf("%w: tag %d has empty name", ErrInvalidTaxonomy, i)
		case seen[t.Name]:
			return nil, fmt.Errorf("%w: duplicate tag %q", ErrInvalidTaxonomy, t.Name)
		case len(t.Keywords) == 0:
			return nil, fmt.Errorf("%w: tag %q has no keywords", ErrInvalidTaxonomy, t.Name)
		case t.Weight <= 0:
			return nil, fmt.Errorf("%w: tag %q has non-positive weight %v", ErrInvalidTaxonomy, t.Name, t.Weight)
		}
		for _, kw := range t.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("%w: tag %q has an empty keyword", ErrInvalidTaxonomy, t.Name)
			}
		}
		seen[t.Name] = true
	}
	out := make([]Tag, len(tags))
	copy(out, tags)
	return &Taxonomy{tags: out}, nil
}

// Tags returns the taxonomy entries in declaration order.
func (t *Taxonomy) Tags() []Tag {
	out := make([]Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

// Len returns the number of tags in the taxonomy.
func (t *Taxonomy) Len() int { return len(t.tags) }

// Classifier scores articles against a taxonomy. It is a pure function of
// article plus taxonomy: same input, same ordered scores.
type Classifier struct {
	taxonomy    *Taxonomy
	titleWeight float64
	bodyWeight  float64
}

// NewClassifier creates a classifier over a validated taxonomy.
func NewClassifier(taxonomy *Taxonomy, opts ...Option) *Classifier {
	c := &Classifier{
		taxonomy:    taxonomy,
		titleWeight: defaultTitleWeight,
		bodyWeight:  defaultBodyWeight,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns tag scores ordered by score descending, ties broken by
// taxonomy declaration order. The result is never empty: an article matching
// no rule yields the single uncategorized sentinel entry.
func (c *Classifier) Classify(ctx context.Context, article model.Article) []model.TagScore {
	start := time.Now()
	defer func() {
		metrics.RecordClassifyLatency(float64(time.Since(start).Milliseconds()))
		metrics.RecordArticleClassified()
	}()

	titleTokens := tokenize(article.Title)
	bodyTokens := tokenize(article.BodyText)
	titleText := strings.ToLower(article.Title)
	bodyText := strings.ToLower(article.BodyText)

	scores := make([]model.TagScore, 0, c.taxonomy.Len())
	for _, tag := range c.taxonomy.tags {
		var hits float64
		for _, kw := range tag.Keywords {
			kw = strings.ToLower(kw)
			if strings.ContainsRune(kw, ' ') {
				// Phrase keywords fall back to substring counting.
				hits += c.titleWeight * float64(strings.Count(titleText, kw))
				hits += c.bodyWeight * float64(strings.Count(bodyText, kw))
				continue
			}
			hits += c.titleWeight * float64(titleTokens[kw])
			hits += c.bodyWeight * float64(bodyTokens[kw])
		}
		if hits > 0 {
			scores = append(scores, model.TagScore{TagName: tag.Name, Score: hits * tag.Weight})
		}
	}

	// Stable sort keeps declaration order for equal scores.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if len(scores) == 0 {
		return []model.TagScore{{TagName: model.UncategorizedTag, Score: 0}}
	}
	return scores
}

// tokenize lowercases text and counts word occurrences, splitting on any
// non-letter, non-digit rune.
func tokenize(text string) map[string]int {
	counts := make(map[string]int)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		counts[w]++
	}
	return counts
}
