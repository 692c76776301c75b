package metrics

import (
	"fmt"
	"time"
)

// SNMP Interface-MIB enum values.
const (
	StatusUp   = 1
	StatusDown = 2

	DuplexHalf = 2
	DuplexFull = 3
)

// Byte counters are estimated from packet counters since the device only
// exposes packet tallies. Good frames assumed mixed control/data traffic,
// error frames assumed small malformed frames.
const (
	AvgGoodFrameBytes  = 800
	AvgErrorFrameBytes = 64
)

// InterfaceStat - One port's worth of data collected across the device's pages.
// Field groups may be missing when only one page kind was readable.
type InterfaceStat struct {
	IfIndex int
	IfName  string
	IfDescr string
	IfAlias string

	// From the port statistics page.
	HasTraffic   bool
	AdminStatus  int // StatusUp/StatusDown
	OperStatus   int // StatusUp/StatusDown
	InUcastPkts  uint64
	OutUcastPkts uint64
	InErrors     uint64
	OutErrors    uint64

	// From the port configuration page.
	HasLink  bool
	SpeedBps uint64 // 0 when link is down
	Duplex   int    // DuplexHalf/DuplexFull, DuplexHalf when link is down
}

// Labels - Per-series labels, mirroring the SNMP exporter label set.
type Labels struct {
	IfIndex int
	IfName  string
	IfDescr string
	IfAlias string
}

// StatLabels - Build the label set for a port.
func StatLabels(stat InterfaceStat) Labels {
	return Labels{
		IfIndex: stat.IfIndex,
		IfName:  stat.IfName,
		IfDescr: stat.IfDescr,
		IfAlias: stat.IfAlias,
	}
}

// MetricSeries - One sample of one canonical metric for one port.
type MetricSeries struct {
	Name   string
	Labels Labels
	Value  float64
}

// ScrapeResult - All series from one scrape of one target, plus its outcome.
// Created per scrape and consumed immediately, never persisted.
type ScrapeResult struct {
	Target      string
	Series      []MetricSeries
	Duration    time.Duration
	Success     bool
	Pages       int
	SkippedRows int

	// NoDataFound - The device authenticated but exposed no known port
	// pages. Distinguishes an empty-but-healthy scrape from a failed one.
	NoDataFound bool
}

// SeriesFromStat - Expand one port record into its canonical metric series.
// Only fields backed by a scraped page are emitted.
func SeriesFromStat(stat InterfaceStat) []MetricSeries {
	labels := StatLabels(stat)
	series := make([]MetricSeries, 0, 11)
	add := func(rawField string, value float64) {
		canonical, ok := Canonicalize(rawField)
		if !ok {
			return
		}
		series = append(series, MetricSeries{Name: canonical.Name, Labels: labels, Value: value})
	}

	if stat.HasTraffic {
		add("State", float64(stat.AdminStatus))
		add("LinkStatus", float64(stat.OperStatus))
		add("TxGoodPkts", float64(stat.OutUcastPkts))
		add("TxBadPkts", float64(stat.OutErrors))
		add("RxGoodPkts", float64(stat.InUcastPkts))
		add("RxBadPkts", float64(stat.InErrors))

		estimatedTxBytes := float64(stat.OutUcastPkts)*AvgGoodFrameBytes + float64(stat.OutErrors)*AvgErrorFrameBytes
		estimatedRxBytes := float64(stat.InUcastPkts)*AvgGoodFrameBytes + float64(stat.InErrors)*AvgErrorFrameBytes
		add("TxBytes", estimatedTxBytes)
		add("RxBytes", estimatedRxBytes)
	}

	if stat.HasLink {
		if stat.SpeedBps > 0 {
			add("Speed", float64(stat.SpeedBps))
			speedMbps := stat.SpeedBps / 1000000
			// SNMP convention: ifHighSpeed only for >= 20 Mbps.
			if speedMbps >= 20 {
				add("HighSpeed", float64(speedMbps))
			}
		}
		add("Duplex", float64(stat.Duplex))
	}

	return series
}

// PortLabels - Default labels for a bare port number, matching the device's
// own naming ("Port N").
func PortLabels(ifIndex int) (name string, descr string, alias string) {
	return fmt.Sprintf("Port%d", ifIndex), fmt.Sprintf("Port %d", ifIndex), fmt.Sprintf("Port %d", ifIndex)
}
