package version

// Name identifies the service in telemetry and health output.
const Name = "vrno-market-gateway"

// Version is stamped at build time via -ldflags when releasing.
var Version = "dev"
