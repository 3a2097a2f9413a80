package news

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound         = errors.New("article not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidSentiment = errors.New("invalid sentiment")
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Sentiments lists every accepted value, in the order used in error messages.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.TrimSpace(s)) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNegative:
		return SentimentNegative, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSentiment, s)
	}
}

func (s Sentiment) Valid() bool {
	_, err := ParseSentiment(string(s))
	return err == nil
}

type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
}

type Tag struct {
	ID   int64
	Name string
	Slug string
}

type Article struct {
	ID          string
	Title       string
	Summary     string
	Content     string
	URL         string
	PublishedAt time.Time
	Source      string
	Author      string

	CompanyID   string
	CompanyName string
	Sentiment   Sentiment
	Category    *Category
	Tags        []Tag

	ViewCount       int64
	PopularityScore float64

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SearchText is the denormalized lowercase projection stored alongside the
// article for substring search. Repositories write it on every insert and
// update; it is never set independently.
func (a Article) SearchText() string {
	return strings.ToLower(a.Title + " " + a.Summary + " " + a.CompanyName + " " + a.Source)
}

func (a Article) TagSlugs() []string {
	out := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		out = append(out, t.Slug)
	}
	return out
}
