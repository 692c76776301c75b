package scraping

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/YurkoWasHere/sodola-exporter/device"
	"github.com/YurkoWasHere/sodola-exporter/metrics"
)

// Realistic stats page: uneven whitespace, nested markup and a thousands
// separator, the way the firmware actually emits it.
const statsPageFixture = `<html><body>
<table border="1">
<tr><th>Port</th><th>State</th><th>Link Status</th><th>TxGoodPkts</th><th>TxBadPkts</th><th>RxGoodPkts</th><th>RxBadPkts</th></tr>
<tr><td>Port 1</td><td>Enable</td><td>Link Up</td><td>1,234</td><td>0</td><td>  5678 </td><td>2</td></tr>
<tr>
  <td>Port 2</td>
  <td>Disable</td>
  <td><b>Link Down</b></td>
  <td>0</td><td>0</td><td>0</td><td>0</td>
</tr>
<tr><td>Port 3</td><td>Enable</td><td>Link Down</td><td>42</td><td>1</td><td>99</td><td>3</td></tr>
</table>
</body></html>`

const configPageFixture = `<html><body>
<table>
<tr><th>Port</th><th>State</th><th>Speed</th><th>Speed</th><th>Flow Control</th><th>Flow Control</th></tr>
<tr><td>Port 1</td><td>Enable</td><td>Auto</td><td>1000 Full</td><td>Off</td><td>Off</td></tr>
<tr><td>Port 2</td><td>Enable</td><td>Auto</td><td>Link Down</td><td>Off</td><td>Off</td></tr>
<tr><td>Port 3</td><td>Enable</td><td>Auto</td><td>10G Full</td><td>On</td><td>On</td></tr>
</table>
</body></html>`

func TestExtractStatsRows(t *testing.T) {
	stats, skipped := Extract(statsPageFixture, device.PageDescriptor{Path: "/port.cgi?page=stats", Kind: device.KindPortStats})
	require.Zero(t, skipped)
	require.Len(t, stats, 3)

	port1 := stats[0]
	require.Equal(t, 1, port1.IfIndex)
	require.Equal(t, "Port1", port1.IfName)
	require.Equal(t, "Port 1", port1.IfDescr)
	require.Equal(t, "Port 1", port1.IfAlias)
	require.True(t, port1.HasTraffic)
	require.False(t, port1.HasLink)
	require.Equal(t, metrics.StatusUp, port1.AdminStatus)
	require.Equal(t, metrics.StatusUp, port1.OperStatus)
	require.Equal(t, uint64(1234), port1.OutUcastPkts)
	require.Equal(t, uint64(0), port1.OutErrors)
	require.Equal(t, uint64(5678), port1.InUcastPkts)
	require.Equal(t, uint64(2), port1.InErrors)

	port2 := stats[1]
	require.Equal(t, metrics.StatusDown, port2.AdminStatus)
	require.Equal(t, metrics.StatusDown, port2.OperStatus)

	port3 := stats[2]
	require.Equal(t, metrics.StatusUp, port3.AdminStatus)
	require.Equal(t, metrics.StatusDown, port3.OperStatus)
	require.Equal(t, uint64(42), port3.OutUcastPkts)
}

func TestExtractConfigRows(t *testing.T) {
	stats, skipped := Extract(configPageFixture, device.PageDescriptor{Path: "/port.cgi", Kind: device.KindPortConfig})
	require.Zero(t, skipped)
	require.Len(t, stats, 3)

	require.True(t, stats[0].HasLink)
	require.False(t, stats[0].HasTraffic)
	require.Equal(t, uint64(1000000000), stats[0].SpeedBps)
	require.Equal(t, metrics.DuplexFull, stats[0].Duplex)

	// Down link: no speed, duplex falls back to half.
	require.Equal(t, uint64(0), stats[1].SpeedBps)
	require.Equal(t, metrics.DuplexHalf, stats[1].Duplex)

	require.Equal(t, uint64(10000000000), stats[2].SpeedBps)
	require.Equal(t, metrics.DuplexFull, stats[2].Duplex)
}

func TestExtractMalformedRowsSkipped(t *testing.T) {
	page := `<html><body><table>
<tr><td>Port 1</td><td>Enable</td><td>Link Up</td><td>10</td><td>0</td><td>20</td><td>0</td></tr>
<tr><td>Port 2</td><td>Enable</td><td>Link Up</td><td>n/a</td><td>0</td><td>20</td><td>0</td></tr>
<tr><td>Port 3</td><td>Enable</td><td>Link Up</td><td>5</td></tr>
</table></body></html>`

	stats, skipped := Extract(page, device.PageDescriptor{Kind: device.KindPortStats})
	require.Equal(t, 2, skipped)
	require.Len(t, stats, 1)
	require.Equal(t, 1, stats[0].IfIndex)
}

func TestExtractZeroRows(t *testing.T) {
	stats, skipped := Extract("<html><body><p>No ports here.</p></body></html>", device.PageDescriptor{Kind: device.KindPortStats})
	require.Zero(t, skipped)
	require.Empty(t, stats)
}

func TestExtractIgnoresForeignTables(t *testing.T) {
	page := `<html><body>
<table><tr><td>System Name</td><td>switch-1</td></tr></table>
<table><tr><td>Port 1</td><td>Enable</td><td>Link Up</td><td>1</td><td>2</td><td>3</td><td>4</td></tr></table>
</body></html>`
	stats, skipped := Extract(page, device.PageDescriptor{Kind: device.KindPortStats})
	require.Zero(t, skipped)
	require.Len(t, stats, 1)
}

func TestParseSpeedDuplex(t *testing.T) {
	tests := []struct {
		text   string
		bps    uint64
		duplex int
	}{
		{"Link Down", 0, metrics.DuplexHalf},
		{"1000 Full", 1000000000, metrics.DuplexFull},
		{"100 Half", 100000000, metrics.DuplexHalf},
		{"10G Full", 10000000000, metrics.DuplexFull},
		{"2500M Full", 2500000000, metrics.DuplexFull},
		{"1 Gbps", 1000000000, metrics.DuplexFull},
		{"2.5G Full", 2500000000, metrics.DuplexFull},
		{"10 Full", 10000000, metrics.DuplexFull},
	}
	for _, test := range tests {
		bps, duplex := parseSpeedDuplex(test.text)
		require.Equal(t, test.bps, bps, "speed for %q", test.text)
		require.Equal(t, test.duplex, duplex, "duplex for %q", test.text)
	}
}

func TestNormalizeCounter(t *testing.T) {
	value, err := normalizeCounter("1,234,567")
	require.NoError(t, err)
	require.Equal(t, uint64(1234567), value)

	value, err = normalizeCounter(" 42 ")
	require.NoError(t, err)
	require.Equal(t, uint64(42), value)

	value, err = normalizeCounter("12\u00a0345")
	require.NoError(t, err)
	require.Equal(t, uint64(12345), value)

	_, err = normalizeCounter("n/a")
	require.Error(t, err)

	_, err = normalizeCounter("")
	require.Error(t, err)
}
