// Package config resolves, parses, validates, and defaults marquee
// configuration paths and daemon settings.
package config

// Settings is the daemon tuning section read from marquee.toml. The watched
// widget document and stylesheet are opaque to this package; their formats
// belong to the configuration language, not the daemon.
type Settings struct {
	LogFile    string `toml:"log_file"`
	Socket     string `toml:"socket"`
	DebounceMS int    `toml:"debounce_ms"`
}

// Paths locates every file the daemon touches.
type Paths struct {
	ConfigDir string
	Yuck      string
	Scss      string
	Settings  string
	LogFile   string
	Socket    string
	LockFile  string
}

// Warning is a non-fatal configuration finding surfaced to the user.
type Warning struct {
	Message string
}

// Loaded captures the resolved directory, derived paths, parsed settings,
// and non-fatal warnings.
type Loaded struct {
	Dir      string
	Paths    Paths
	Settings Settings
	Warnings []Warning
	Exists   bool
}
