package daemon

import "time"

// Fixed refresh intervals. They are not runtime configurable.
const (
	DiscoveryInterval = 10 * time.Second
	NodesInterval     = 5 * time.Second
	LogsInterval      = 2 * time.Second
	DebugInterval     = 3 * time.Second
	ConfigInterval    = 5 * time.Second
)

// Channel names, also used as metric labels.
const (
	ChannelDiscovery = "discovery"
	ChannelNodes     = "nodes"
	ChannelLogs      = "logs"
	ChannelDebug     = "debug"
	ChannelConfig    = "config"
)

// shutdownTimeout bounds Run's graceful stop.
const shutdownTimeout = 30 * time.Second
