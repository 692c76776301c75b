package scraping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"github.com/YurkoWasHere/sodola-exporter/device"
	"github.com/YurkoWasHere/sodola-exporter/metrics"
)

// cellRule - Maps one table cell, by position after the port cell, onto an
// InterfaceStat field. The vendor HTML carries no schema, so rows are matched
// structurally: a "Port N" first cell followed by the expected cell count.
type cellRule struct {
	Field string
	Parse func(text string, stat *metrics.InterfaceStat) error
}

var statsRowRules = []cellRule{
	{Field: "State", Parse: parseAdminStatus},
	{Field: "LinkStatus", Parse: parseOperStatus},
	{Field: "TxGoodPkts", Parse: parseCounter(func(stat *metrics.InterfaceStat, value uint64) { stat.OutUcastPkts = value })},
	{Field: "TxBadPkts", Parse: parseCounter(func(stat *metrics.InterfaceStat, value uint64) { stat.OutErrors = value })},
	{Field: "RxGoodPkts", Parse: parseCounter(func(stat *metrics.InterfaceStat, value uint64) { stat.InUcastPkts = value })},
	{Field: "RxBadPkts", Parse: parseCounter(func(stat *metrics.InterfaceStat, value uint64) { stat.InErrors = value })},
}

var configRowRules = []cellRule{
	{Field: "State", Parse: parseAdminStatus},
	{Field: "ConfigSpeed", Parse: parseIgnore},
	{Field: "ActualSpeed", Parse: parseActualSpeed},
	{Field: "ConfigFlowControl", Parse: parseIgnore},
	{Field: "ActualFlowControl", Parse: parseIgnore},
}

var portCellRegex = regexp.MustCompile(`(?i)^Port\s+(\d+)$`)

// Extract - Parse one page's HTML into port records.
// Returns the records plus the count of port rows skipped as malformed.
// A page with zero parseable rows yields zero records, never an error.
func Extract(body string, page device.PageDescriptor) ([]metrics.InterfaceStat, int) {
	switch page.Kind {
	case device.KindPortStats:
		return extractRows(body, statsRowRules, markTraffic)
	case device.KindPortConfig:
		return extractRows(body, configRowRules, markLink)
	default:
		return nil, 0
	}
}

func markTraffic(stat *metrics.InterfaceStat) { stat.HasTraffic = true }
func markLink(stat *metrics.InterfaceStat)    { stat.HasLink = true }

// extractRows - Tolerant tree walk over all table rows. Rows whose first cell
// is not a port cell belong to other tables and are ignored; port rows that
// fail a cell rule are skipped and counted.
func extractRows(body string, rules []cellRule, mark func(*metrics.InterfaceStat)) ([]metrics.InterfaceStat, int) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		log.WithError(err).Warn("Failed to parse page HTML")
		return nil, 0
	}

	var stats []metrics.InterfaceStat
	skipped := 0
	seen := make(map[int]bool)
	document.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td").Map(func(_ int, cell *goquery.Selection) string {
			return collapseWhitespace(cell.Text())
		})
		if len(cells) == 0 {
			return
		}
		portMatch := portCellRegex.FindStringSubmatch(cells[0])
		if portMatch == nil {
			return
		}
		if len(cells) < len(rules)+1 {
			skipped++
			return
		}

		ifIndex, err := strconv.Atoi(portMatch[1])
		if err != nil || ifIndex <= 0 || seen[ifIndex] {
			skipped++
			return
		}

		stat := metrics.InterfaceStat{IfIndex: ifIndex}
		stat.IfName, stat.IfDescr, stat.IfAlias = metrics.PortLabels(ifIndex)
		mark(&stat)

		ok := true
		for i, rule := range rules {
			if err := rule.Parse(cells[i+1], &stat); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"if_index": ifIndex,
					"field":    rule.Field,
				}).Trace("Skipping malformed port row")
				ok = false
				break
			}
		}
		if !ok {
			skipped++
			return
		}

		seen[ifIndex] = true
		stats = append(stats, stat)
	})

	return stats, skipped
}

func parseAdminStatus(text string, stat *metrics.InterfaceStat) error {
	if strings.EqualFold(strings.TrimSpace(text), "enable") {
		stat.AdminStatus = metrics.StatusUp
	} else {
		stat.AdminStatus = metrics.StatusDown
	}
	return nil
}

func parseOperStatus(text string, stat *metrics.InterfaceStat) error {
	if strings.Contains(strings.ToLower(text), "up") {
		stat.OperStatus = metrics.StatusUp
	} else {
		stat.OperStatus = metrics.StatusDown
	}
	return nil
}

func parseCounter(assign func(*metrics.InterfaceStat, uint64)) func(string, *metrics.InterfaceStat) error {
	return func(text string, stat *metrics.InterfaceStat) error {
		value, err := normalizeCounter(text)
		if err != nil {
			return err
		}
		assign(stat, value)
		return nil
	}
}

func parseActualSpeed(text string, stat *metrics.InterfaceStat) error {
	stat.SpeedBps, stat.Duplex = parseSpeedDuplex(text)
	return nil
}

// parseIgnore - Cell present in the table but not mapped onto any metric.
func parseIgnore(string, *metrics.InterfaceStat) error {
	return nil
}

var gigabitSpeedRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*g`)

// parseSpeedDuplex - Normalize vendor speed text ("1000 Full", "10G", "1 Gbps",
// "Link Down") into bits per second plus a duplex enum. Down links yield zero
// speed and half duplex.
func parseSpeedDuplex(text string) (uint64, int) {
	normalized := strings.ToLower(collapseWhitespace(text))
	if strings.Contains(normalized, "link down") || normalized == "" || normalized == "down" {
		return 0, metrics.DuplexHalf
	}

	var speedMbps float64
	if match := gigabitSpeedRegex.FindStringSubmatch(normalized); match != nil {
		gigabits, _ := strconv.ParseFloat(match[1], 64)
		speedMbps = gigabits * 1000
	} else {
		switch {
		case strings.Contains(normalized, "10000"):
			speedMbps = 10000
		case strings.Contains(normalized, "2500"):
			speedMbps = 2500
		case strings.Contains(normalized, "1000"):
			speedMbps = 1000
		case strings.Contains(normalized, "100"):
			speedMbps = 100
		case strings.Contains(normalized, "10"):
			speedMbps = 10
		}
	}

	duplex := metrics.DuplexFull // modern links default full
	if strings.Contains(normalized, "half") {
		duplex = metrics.DuplexHalf
	}

	return uint64(speedMbps * 1000000), duplex
}

// normalizeCounter - Parse a counter cell, tolerating thousands separators,
// non-breaking spaces and surrounding text.
func normalizeCounter(text string) (uint64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '\u00a0', ' ', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(text))
	value, err := strconv.ParseUint(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed counter %q", text)
	}
	return value, nil
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
