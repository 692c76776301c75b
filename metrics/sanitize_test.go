package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeVendorFields(t *testing.T) {
	tests := []struct {
		rawField string
		name     string
		kind     MetricKind
	}{
		{"State", "ifAdminStatus", KindGauge},
		{"LinkStatus", "ifOperStatus", KindGauge},
		{"Link Status", "ifOperStatus", KindGauge},
		{"TxGoodPkts", "ifOutUcastPkts", KindCounter},
		{"TxBadPkts", "ifOutErrors", KindCounter},
		{"RxGoodPkts", "ifInUcastPkts", KindCounter},
		{"RxBadPkts", "ifInErrors", KindCounter},
		{"Speed", "ifSpeed", KindGauge},
		{"Actual Speed", "ifSpeed", KindGauge},
		{"Duplex", "ifDuplex", KindGauge},
		{"TxBytes", "ifHCOutOctets", KindCounter},
		{"RxBytes", "ifHCInOctets", KindCounter},
	}
	for _, test := range tests {
		canonical, ok := Canonicalize(test.rawField)
		require.True(t, ok, "field %q should be mapped", test.rawField)
		require.Equal(t, test.name, canonical.Name)
		require.Equal(t, test.kind, canonical.Kind)
		require.NotEmpty(t, canonical.Help)
	}
}

func TestCanonicalizeExactNames(t *testing.T) {
	for _, name := range CanonicalOrder {
		canonical, ok := Canonicalize(name)
		require.True(t, ok)
		require.Equal(t, name, canonical.Name)
	}
}

// The vocabulary is closed: firmware additions never surface as ad-hoc metrics.
func TestCanonicalizeUnknownFieldsDropped(t *testing.T) {
	for _, rawField := range []string{"Jumbo Frames", "EEE", "PoE Power", "", "Loopback Detection"} {
		_, ok := Canonicalize(rawField)
		require.False(t, ok, "field %q should be unmapped", rawField)
	}
}

// Metric kind is invariant per name across all scrapes.
func TestMetricKindsFixed(t *testing.T) {
	expected := map[string]MetricKind{
		"ifAdminStatus":  KindGauge,
		"ifOperStatus":   KindGauge,
		"ifSpeed":        KindGauge,
		"ifHighSpeed":    KindGauge,
		"ifDuplex":       KindGauge,
		"ifHCInOctets":   KindCounter,
		"ifHCOutOctets":  KindCounter,
		"ifInUcastPkts":  KindCounter,
		"ifOutUcastPkts": KindCounter,
		"ifInErrors":     KindCounter,
		"ifOutErrors":    KindCounter,
	}
	require.Len(t, CanonicalOrder, len(expected))
	for name, kind := range expected {
		canonical, ok := MetricByName(name)
		require.True(t, ok)
		require.Equal(t, kind, canonical.Kind)
	}
}

func TestSanitizeName(t *testing.T) {
	require.Equal(t, "sodola_status_cpu_load", SanitizeName("sodola_status_CPU Load"))
	require.Equal(t, "rx_bytes", SanitizeName("__RX-Bytes__"))
	require.Equal(t, "a_b", SanitizeName("a///b"))
}
