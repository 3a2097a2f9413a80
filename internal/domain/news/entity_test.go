package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSentiment(t *testing.T) {
	for _, s := range Sentiments {
		got, err := ParseSentiment(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
		assert.True(t, s.Valid())
	}

	for _, bad := range []string{"", "invalid", "Positive", "mixed"} {
		_, err := ParseSentiment(bad)
		assert.ErrorIs(t, err, ErrInvalidSentiment, bad)
		assert.False(t, Sentiment(bad).Valid())
	}
}

func TestArticle_SearchText(t *testing.T) {
	a := Article{
		Title:       "Samsung Unveils AI Chip",
		Summary:     "New Semiconductor line",
		CompanyName: "Samsung Electronics",
		Source:      "Korea Herald",
	}
	assert.Equal(t, "samsung unveils ai chip new semiconductor line samsung electronics korea herald", a.SearchText())

	a.Title = "Updated"
	assert.Contains(t, a.SearchText(), "updated new semiconductor line")
}

func TestArticle_SearchTextNonASCII(t *testing.T) {
	a := Article{Title: "삼성전자 뉴스", Summary: "삼성전자 관련 뉴스", CompanyName: "삼성전자", Source: "테스트 소스"}
	assert.Equal(t, "삼성전자 뉴스 삼성전자 관련 뉴스 삼성전자 테스트 소스", a.SearchText())
}
