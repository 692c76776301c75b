package metrics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Render - Serialize a scrape result into Prometheus exposition text.
// Metrics appear in fixed MIB order, series sorted by ifIndex, labels in a
// fixed alphabetical order. Output is deterministic for identical input.
func Render(result *ScrapeResult) string {
	grouped := make(map[string][]MetricSeries)
	for _, series := range result.Series {
		grouped[series.Name] = append(grouped[series.Name], series)
	}

	var builder strings.Builder
	for _, name := range CanonicalOrder {
		group := grouped[name]
		if len(group) == 0 {
			continue
		}
		canonical, _ := MetricByName(name)
		fmt.Fprintf(&builder, "# HELP %v %v\n", canonical.Name, canonical.Help)
		fmt.Fprintf(&builder, "# TYPE %v %v\n", canonical.Name, canonical.Kind)

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Labels.IfIndex < group[j].Labels.IfIndex
		})
		for _, series := range group {
			fmt.Fprintf(&builder, "%v{%v} %v\n", series.Name, formatLabels(series.Labels), FormatValue(series.Value))
		}
	}
	return builder.String()
}

// RenderScrapeMeta - Render the exporter's own per-scrape metrics, appended
// after the device metrics in service mode.
func RenderScrapeMeta(duration time.Duration, up bool) string {
	upValue := 0.0
	if up {
		upValue = 1.0
	}
	var builder strings.Builder
	builder.WriteString("# HELP sodola_scrape_duration_seconds Time spent scraping Sodola device\n")
	builder.WriteString("# TYPE sodola_scrape_duration_seconds gauge\n")
	fmt.Fprintf(&builder, "sodola_scrape_duration_seconds %v\n", FormatValue(duration.Seconds()))
	builder.WriteString("# HELP sodola_up Whether the Sodola device is up and responding\n")
	builder.WriteString("# TYPE sodola_up gauge\n")
	fmt.Fprintf(&builder, "sodola_up %v\n", FormatValue(upValue))
	return builder.String()
}

// formatLabels - Fixed label order: ifAlias, ifDescr, ifIndex, ifName.
func formatLabels(labels Labels) string {
	return fmt.Sprintf(`ifAlias=%q,ifDescr=%q,ifIndex="%v",ifName=%q`,
		labels.IfAlias, labels.IfDescr, labels.IfIndex, labels.IfName)
}

// FormatValue - Format a sample value with an explicit decimal for integral
// values ("2.0", not "2"), per exposition-format float convention.
func FormatValue(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatFloat(value, 'f', 1, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
