package device

import (
	"context"
	"regexp"

	log "github.com/sirupsen/logrus"
)

// PageKind - What a management page is expected to contain.
type PageKind int

// Page content kinds.
const (
	// KindUnknown - No recognizable port data, skipped.
	KindUnknown PageKind = iota
	// KindPortStats - Per-port packet and error counters.
	KindPortStats
	// KindPortConfig - Per-port state, speed and duplex.
	KindPortConfig
)

// PageDescriptor - One discovered management page.
type PageDescriptor struct {
	Path string
	Kind PageKind
}

// candidatePages - Known management page paths, tried in order. Only the port
// pages carry a content kind; the rest are probed to map the firmware but
// hold no port data on any known revision.
var candidatePages = []PageDescriptor{
	{Path: "/", Kind: KindUnknown},
	{Path: "/index.cgi", Kind: KindUnknown},
	{Path: "/main.cgi", Kind: KindUnknown},
	{Path: "/status.cgi", Kind: KindUnknown},
	{Path: "/system.cgi", Kind: KindUnknown},
	{Path: "/info.cgi", Kind: KindUnknown},
	{Path: "/config.cgi", Kind: KindUnknown},
	{Path: "/network.cgi", Kind: KindUnknown},
	{Path: "/device.cgi", Kind: KindUnknown},
	{Path: "/stats.cgi", Kind: KindUnknown},
	{Path: "/monitor.cgi", Kind: KindUnknown},
	{Path: "/port.cgi?page=stats", Kind: KindPortStats},
	{Path: "/port.cgi", Kind: KindPortConfig},
}

// Pages shorter than this are login redirects or error stubs.
const minPageSize = 100

var portRowMarker = regexp.MustCompile(`(?i)<td[^>]*>\s*Port\s+\d+`)

// Discover - Probe the candidate page list and return the pages holding port
// data. Runs once per scrape. Unrecognized or empty pages are skipped, not
// errors; an empty result means the device exposes no known port pages.
func (client *Client) Discover(ctx context.Context) []PageDescriptor {
	var pages []PageDescriptor
	for _, candidate := range candidatePages {
		body, err := client.FetchPage(ctx, candidate.Path)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"target": client.target,
				"path":   candidate.Path,
			}).Trace("Candidate page not accessible")
			continue
		}
		if candidate.Kind == KindUnknown {
			// Accessible but holds no port data on any known firmware.
			continue
		}
		if !classifyPortPage(body) {
			log.WithFields(log.Fields{
				"target": client.target,
				"path":   candidate.Path,
			}).Trace("Candidate page holds no recognizable port table")
			continue
		}
		pages = append(pages, candidate)
	}

	log.WithFields(log.Fields{
		"target":     client.target,
		"page_count": len(pages),
	}).Trace("Discovered port pages")

	return pages
}

// classifyPortPage - Heuristic check for a port-statistics table.
func classifyPortPage(body string) bool {
	return len(body) > minPageSize && portRowMarker.MatchString(body)
}
