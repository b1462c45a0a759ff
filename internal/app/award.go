package app

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

// Certificate describes the award issued for a passed result.
type Certificate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IssuedOn string `json:"issuedOn"`
	FileName string `json:"fileName"`
}

// ShareLinks holds social-share deep links for a result.
type ShareLinks struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedIn"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NewCertificate builds the certificate metadata for name and score issued at issuedAt.
func NewCertificate(name string, score int, issuedAt time.Time) Certificate {
	id := ulid.MustNew(ulid.Timestamp(issuedAt), ulid.DefaultEntropy())
	return Certificate{
		ID:       "BIQ-" + id.String(),
		Name:     name,
		Score:    score,
		IssuedOn: issuedAt.Format("January 2, 2006"),
		FileName: fmt.Sprintf("BlockchainIQ-NFT-Certificate-%s-%d%%.png", whitespaceRun.ReplaceAllString(name, "_"), score),
	}
}

// NewShareLinks builds the share URLs pointing back at baseURL.
func NewShareLinks(baseURL string, score int) ShareLinks {
	text := fmt.Sprintf("I just scored %d%% on BlockchainIQ! 🚀🎯 Earned my blockchain certificate! Test your knowledge at", score)
	tw := url.Values{}
	tw.Set("text", text)
	tw.Set("url", baseURL)
	li := url.Values{}
	li.Set("url", baseURL)
	return ShareLinks{
		Twitter:  "https://twitter.com/intent/tweet?" + tw.Encode(),
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?" + li.Encode(),
	}
}
