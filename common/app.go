package common

// AppName - Application name.
const AppName = "Sodola Exporter"

// AppVersion - Application version.
const AppVersion = "1.0.0"

// AppAuthor - Application author.
const AppAuthor = "YurkoWasHere"

// PrometheusNamespace - Prometheus namespace for the exporter's own metrics.
const PrometheusNamespace = "sodola"

// UserAgent - User agent header sent with all device requests.
const UserAgent = "Mozilla/5.0 (Linux x86_64) Prometheus Sodola Exporter"
