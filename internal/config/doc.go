// Package config loads and saves the arpsweep settings file.
//
// Settings are stored as YAML and cover the discovery engine (probe timeout,
// sweep range endpoints, cache), the collaborator modes (system commands or
// native sockets), vendor table extensions, mDNS hostname lookup and the HTTP
// server. Command-line flags override the file.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/arpsweep/config.yaml or $HOME/.config/arpsweep/config.yaml
//   - macOS: $HOME/.config/arpsweep/config.yaml
//   - Windows: %LOCALAPPDATA%\arpsweep\config.yaml
//
// # Usage Example
//
//	settings, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	engine, err := discovery.New(settings.EngineConfig(), collab, logger)
//
// A missing file yields the defaults; keys absent from the file keep their
// default values. Save writes to a temporary file and renames it into place.
package config
