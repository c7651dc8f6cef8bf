// Package config loads httpx-fetch settings from a TOML file.
//
// # Configuration Discovery
//
// Load reads the path it is given, or ~/.config/plainhttp/config.toml when
// the path is empty. A missing file is not an error: Default() is used.
// Keys absent from the file keep their default value.
//
// # TOML Format
//
//	user_agent = "plainhttp/1.0"
//	timeout = "30s"
//	max_redirects = 10
//	buffer_limit = 32767
//	max_body_bytes = 0        # 0 means unlimited
//	connect_retries = 3
//	standard_base64 = false
//	log_level = "info"
//
//	[proxy]
//	enabled = true
//	host = "10.0.0.8"
//	port = 3128
//	username = "proxy"
//	password = "pw"
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors and values
// out of range (negative counts, a bad duration, an enabled proxy with no
// host). Parse errors are prefixed with "parse config:".
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
//	c := httpx.New(cfg.ClientOptions()...)
package config
