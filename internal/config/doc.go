// Package config loads rolo's TOML configuration.
//
// # Resolution
//
//  1. An explicit path (the -config flag) wins
//  2. Otherwise ~/.config/rolo/config.toml is read
//  3. A missing file is not an error; defaults are used
//  4. Blank fields in an existing file also fall back to defaults
//
// # Fields
//
//	node      = "127.0.0.1:8080"               # host:port or http(s) URL
//	service   = "contacts:crdt-crm:mothu.eth"  # first path segment of the node's URLs
//	namespace = "contacts:crdt-crm:mothu.eth"  # defaults to service
//	cookie    = "kinode-auth_alice.os=..."     # optional, sent on every request
//	log_file  = "~/.local/state/rolo/rolo.log"
//	log_level = "info"                         # debug, info, warn, error
//
// Paths are tilde-expanded and made absolute. Load only returns an error
// when the home directory cannot be resolved, the file cannot be read, or
// it does not parse.
package config
