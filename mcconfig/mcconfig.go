// Package mcconfig holds the small set of knobs a host configures before
// standing up a connection: listen address, compression threshold, and the
// protocol version the session layer enforces. Parsing flags or env vars
// into this struct is the host's concern (see cmd/mcproto-server); this
// package only defines the struct and its functional-option constructor,
// the same shape as the teacher's NewBaseTCP/SetCompressionThreshold/
// EnableDebug setters on BaseTCP.
package mcconfig

// DefaultProtocolVersion is the protocol version this module implements:
// 763, "1.20.1".
const DefaultProtocolVersion = 763

// DefaultCompressionThreshold matches vanilla server.properties's default
// network-compression-threshold.
const DefaultCompressionThreshold = 256

// Config is the runtime configuration for one listener or one outbound
// client connection.
type Config struct {
	ListenAddr           string
	CompressionThreshold int
	ProtocolVersion      int32
	Debug                bool
}

// Option configures a Config.
type Option func(*Config)

// New builds a Config with spec defaults, then applies opts in order.
func New(opts ...Option) Config {
	cfg := Config{
		ListenAddr:           ":25565",
		CompressionThreshold: DefaultCompressionThreshold,
		ProtocolVersion:      DefaultProtocolVersion,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithListenAddr sets the TCP address a server listens on.
func WithListenAddr(addr string) Option {
	return func(c *Config) { c.ListenAddr = addr }
}

// WithCompressionThreshold sets the compression threshold. A negative
// value disables compression entirely (frame.DisableCompression).
func WithCompressionThreshold(threshold int) Option {
	return func(c *Config) { c.CompressionThreshold = threshold }
}

// WithProtocolVersion overrides the protocol version the session layer
// checks an incoming Handshake against.
func WithProtocolVersion(version int32) Option {
	return func(c *Config) { c.ProtocolVersion = version }
}

// WithDebug enables verbose connection logging.
func WithDebug(debug bool) Option {
	return func(c *Config) { c.Debug = debug }
}
