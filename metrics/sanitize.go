package metrics

import (
	"regexp"
	"strings"
)

// MetricKind - Prometheus metric kind.
type MetricKind string

// Metric kinds.
const (
	KindGauge   MetricKind = "gauge"
	KindCounter MetricKind = "counter"
)

// CanonicalMetric - One Interface-MIB metric with fixed kind and help text.
// Help text matches SNMP MIB semantics so dashboards built for SNMP exporters
// work unmodified.
type CanonicalMetric struct {
	Name string
	Kind MetricKind
	Help string
}

// CanonicalOrder - Render order, matching standard MIB layout (HC octets
// before unicast packets).
var CanonicalOrder = []string{
	"ifAdminStatus",
	"ifOperStatus",
	"ifSpeed",
	"ifHighSpeed",
	"ifDuplex",
	"ifHCInOctets",
	"ifHCOutOctets",
	"ifInUcastPkts",
	"ifOutUcastPkts",
	"ifInErrors",
	"ifOutErrors",
}

var canonicalByName = map[string]CanonicalMetric{
	"ifAdminStatus": {
		Name: "ifAdminStatus",
		Kind: KindGauge,
		Help: "The desired state of the interface (1=up, 2=down)",
	},
	"ifOperStatus": {
		Name: "ifOperStatus",
		Kind: KindGauge,
		Help: "The current operational state of the interface (1=up, 2=down)",
	},
	"ifSpeed": {
		Name: "ifSpeed",
		Kind: KindGauge,
		Help: "An estimate of the interface current bandwidth in bits per second",
	},
	"ifHighSpeed": {
		Name: "ifHighSpeed",
		Kind: KindGauge,
		Help: "An estimate of the interface current bandwidth in units of 1,000,000 bits per second",
	},
	"ifDuplex": {
		Name: "ifDuplex",
		Kind: KindGauge,
		Help: "The duplex mode of the interface (2=half-duplex, 3=full-duplex)",
	},
	"ifHCInOctets": {
		Name: "ifHCInOctets",
		Kind: KindCounter,
		Help: "The total number of octets received on the interface, including framing characters - 1.3.6.1.2.1.31.1.1.1.6",
	},
	"ifHCOutOctets": {
		Name: "ifHCOutOctets",
		Kind: KindCounter,
		Help: "The total number of octets transmitted out of the interface, including framing characters - 1.3.6.1.2.1.31.1.1.1.10",
	},
	"ifInUcastPkts": {
		Name: "ifInUcastPkts",
		Kind: KindCounter,
		Help: "The number of packets delivered by this sub-layer to a higher sub-layer which were not addressed to a multicast or broadcast address",
	},
	"ifOutUcastPkts": {
		Name: "ifOutUcastPkts",
		Kind: KindCounter,
		Help: "The total number of packets that higher-level protocols requested be transmitted which were not addressed to a multicast or broadcast address",
	},
	"ifInErrors": {
		Name: "ifInErrors",
		Kind: KindCounter,
		Help: "The number of inbound packets that contained errors preventing them from being deliverable",
	},
	"ifOutErrors": {
		Name: "ifOutErrors",
		Kind: KindCounter,
		Help: "The number of outbound packets that could not be transmitted because of errors",
	},
}

// rawFieldAliases - Vendor field labels mapped onto canonical metric names.
// Keys are normalized with normalizeRawField. Unrecognized vendor fields are
// dropped silently, keeping the rendered vocabulary closed across firmware
// revisions.
var rawFieldAliases = map[string]string{
	"state":       "ifAdminStatus",
	"linkstatus":  "ifOperStatus",
	"link":        "ifOperStatus",
	"speed":       "ifSpeed",
	"actualspeed": "ifSpeed",
	"highspeed":   "ifHighSpeed",
	"duplex":      "ifDuplex",
	"rxbytes":     "ifHCInOctets",
	"txbytes":     "ifHCOutOctets",
	"rxgoodpkts":  "ifInUcastPkts",
	"txgoodpkts":  "ifOutUcastPkts",
	"rxbadpkts":   "ifInErrors",
	"txbadpkts":   "ifOutErrors",
}

func normalizeRawField(raw string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// Canonicalize - Map a raw vendor field label onto its canonical Interface-MIB
// metric. The second return value is false for unmapped fields.
func Canonicalize(rawField string) (CanonicalMetric, bool) {
	if canonical, found := canonicalByName[rawField]; found {
		return canonical, true
	}
	name, found := rawFieldAliases[normalizeRawField(rawField)]
	if !found {
		return CanonicalMetric{}, false
	}
	return canonicalByName[name], true
}

// MetricByName - Look up a canonical metric by its exact name.
func MetricByName(name string) (CanonicalMetric, bool) {
	canonical, found := canonicalByName[name]
	return canonical, found
}

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)
var repeatedUnderscores = regexp.MustCompile(`_+`)

// SanitizeName - Sanitize an ad-hoc metric name for the Prometheus format.
func SanitizeName(name string) string {
	name = invalidNameChars.ReplaceAllString(strings.ToLower(name), "_")
	name = repeatedUnderscores.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
