// Package catalog serves the static content shipped with the binary: the
// sound library, e-books, community links and the 21 cycle days.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed data/catalog.json
var rawCatalog []byte

type Video struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

type Ebook struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DownloadURL string `json:"download_url"`
	Pages       int    `json:"pages"`
	Level       string `json:"level"`
}

type EbookCategory struct {
	Category string  `json:"category"`
	Books    []Ebook `json:"books"`
}

type CommunityLink struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Day is the content of one day of the 21-day cycle.
type Day struct {
	Day       int      `json:"day"`
	Title     string   `json:"title"`
	Exercises []string `json:"exercises"`
	Objective string   `json:"objective"`
	VideoID   string   `json:"video_id"`
}

type Catalog struct {
	videos    []Video
	ebooks    []EbookCategory
	community []CommunityLink
	days      []Day
}

type document struct {
	Videos    []Video         `json:"videos"`
	Ebooks    []EbookCategory `json:"ebooks"`
	Community []CommunityLink `json:"community"`
	CycleDays []Day           `json:"cycle_days"`
}

func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	sort.Slice(doc.CycleDays, func(i, j int) bool { return doc.CycleDays[i].Day < doc.CycleDays[j].Day })
	for i, d := range doc.CycleDays {
		if d.Day != i+1 {
			return nil, fmt.Errorf("catalog: cycle days must be numbered 1..n, got %d at position %d", d.Day, i+1)
		}
	}
	return &Catalog{
		videos:    doc.Videos,
		ebooks:    doc.Ebooks,
		community: doc.Community,
		days:      doc.CycleDays,
	}, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog. It panics if the embedded document
// is malformed, which only a broken build can cause.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(rawCatalog)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultCat
}

// Videos filters by exact category (empty or "all" matches everything) and
// by a case-insensitive substring of the title.
func (c *Catalog) Videos(category, query string) []Video {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Video, 0, len(c.videos))
	for _, v := range c.videos {
		if category != "" && category != "all" && v.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(v.Title), q) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Categories lists the distinct video categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range c.videos {
		if !seen[v.Category] {
			seen[v.Category] = true
			out = append(out, v.Category)
		}
	}
	return out
}

func (c *Catalog) Ebooks() []EbookCategory { return c.ebooks }

func (c *Catalog) Community() []CommunityLink { return c.community }

func (c *Catalog) Days() []Day { return c.days }

func (c *Catalog) Day(n int) (Day, bool) {
	if n < 1 || n > len(c.days) {
		return Day{}, false
	}
	return c.days[n-1], true
}
