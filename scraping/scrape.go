package scraping

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/YurkoWasHere/sodola-exporter/common"
	"github.com/YurkoWasHere/sodola-exporter/device"
	"github.com/YurkoWasHere/sodola-exporter/metrics"
)

// Scrape - Run one full scrape of one target: authenticate, discover pages,
// extract each page, assemble the result. The session lives only for this
// call. On authentication failure or total unreachability the error is
// returned alongside a failed result; per-page failures are absorbed so a
// partial result is always preferred over a total failure.
func Scrape(ctx context.Context, target string, credential common.Credential) (*metrics.ScrapeResult, error) {
	startTime := time.Now()
	result := &metrics.ScrapeResult{Target: device.NormalizeTarget(target)}

	log.WithFields(log.Fields{
		"target": result.Target,
	}).Trace("Scraping device")

	client, err := device.NewClient(target, credential, common.PageTimeout())
	if err != nil {
		result.Duration = time.Since(startTime)
		return result, err
	}

	if err := client.Login(ctx); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"target": result.Target,
		}).Warn("Failed to login to device")
		result.Duration = time.Since(startTime)
		return result, err
	}

	pages := client.Discover(ctx)
	if len(pages) == 0 {
		// Not fatal: the device answered but exposes no known port pages.
		log.WithFields(log.Fields{
			"target": result.Target,
		}).Warn("No port data found on device")
		result.Success = true
		result.NoDataFound = true
		result.Duration = time.Since(startTime)
		return result, nil
	}

	// Pages are independent and read-only, fetch them concurrently. Bodies
	// are collected by page index so the result stays deterministic
	// regardless of completion order.
	bodies := make([]string, len(pages))
	var waitGroup sync.WaitGroup
	for i, page := range pages {
		waitGroup.Add(1)
		go func(i int, page device.PageDescriptor) {
			defer waitGroup.Done()
			body, err := client.FetchPage(ctx, page.Path)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"target": result.Target,
					"path":   page.Path,
				}).Warn("Failed to fetch page, skipping")
				return
			}
			bodies[i] = body
		}(i, page)
	}
	waitGroup.Wait()

	statsByPort := make(map[int]*metrics.InterfaceStat)
	for i, page := range pages {
		if bodies[i] == "" {
			continue
		}
		stats, skipped := Extract(bodies[i], page)
		result.SkippedRows += skipped
		result.Pages++
		for _, stat := range stats {
			mergeStat(statsByPort, stat)
		}
	}

	ifIndexes := make([]int, 0, len(statsByPort))
	for ifIndex := range statsByPort {
		ifIndexes = append(ifIndexes, ifIndex)
	}
	sort.Ints(ifIndexes)
	for _, ifIndex := range ifIndexes {
		result.Series = append(result.Series, metrics.SeriesFromStat(*statsByPort[ifIndex])...)
	}

	result.Success = true
	result.Duration = time.Since(startTime)
	log.WithFields(log.Fields{
		"target":          result.Target,
		"scrape_duration": result.Duration,
		"series_count":    len(result.Series),
		"skipped_rows":    result.SkippedRows,
	}).Trace("Scraping device done")

	return result, nil
}

// mergeStat - Combine page-level records for the same port. ifIndex is unique
// within one scrape, so the stats and config pages contribute disjoint field
// groups to one record.
func mergeStat(statsByPort map[int]*metrics.InterfaceStat, stat metrics.InterfaceStat) {
	existing, found := statsByPort[stat.IfIndex]
	if !found {
		merged := stat
		statsByPort[stat.IfIndex] = &merged
		return
	}
	if stat.HasTraffic {
		existing.HasTraffic = true
		existing.AdminStatus = stat.AdminStatus
		existing.OperStatus = stat.OperStatus
		existing.InUcastPkts = stat.InUcastPkts
		existing.OutUcastPkts = stat.OutUcastPkts
		existing.InErrors = stat.InErrors
		existing.OutErrors = stat.OutErrors
	}
	if stat.HasLink {
		existing.HasLink = true
		existing.SpeedBps = stat.SpeedBps
		existing.Duplex = stat.Duplex
	}
}

// RunInterval - Re-run the full scrape every tick until the context is
// cancelled. Every iteration re-authenticates from scratch since session
// lifetime on the device is unknown. The sink receives every result; a
// failed tick does not stop the loop, the next tick is the retry.
func RunInterval(ctx context.Context, target string, credential common.Credential, interval time.Duration, sink func(*metrics.ScrapeResult, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sink(Scrape(ctx, target, credential))

	for {
		select {
		case <-ticker.C:
			sink(Scrape(ctx, target, credential))
		case <-ctx.Done():
			log.Info("Interval scraping stopped")
			return
		}
	}
}
