// Package config loads runtime configuration for the FlexRent CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the FlexRent API
//	-d string   path of the local session database
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "5s"
// or integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "database_path": "flexrent.db",
//	  "online_check_interval": "5s",
//	  "request_timeout": "1m"
//	}
package config
