// Package app is the composition root of rolo.
//
// # Overview
//
// Run wires configuration, logging, the node client, the sync controller and
// the UI, then blocks in the UI until the user quits or the context ends.
//
//	Run()
//	  ├─> config.Load()          ~/.config/rolo/config.toml, flags on top
//	  ├─> openLog()              file log, slog text records
//	  ├─> prefs.Load()           theme
//	  ├─> contacts.NewClient()   HTTP + websocket client for the node
//	  ├─> session.New().Start()  resolve our address, first pull
//	  └─> ui.Run()               TUI (blocks), runs the push loop
//
// # Error Handling
//
// Fatal, returned from Run:
//   - Configuration file unreadable or invalid
//   - Log file cannot be opened
//   - Node address invalid
//   - Our identity cannot be resolved
//
// Recoverable, logged and shown in the header:
//   - The first state pull failing (the UI starts empty)
//   - The push channel dropping (it reconnects with backoff)
//   - Commands rejected by the node
package app
