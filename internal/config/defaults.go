package config

const (
	yuckName     = "marquee.yuck"
	scssName     = "marquee.scss"
	settingsName = "marquee.toml"
	logName      = "marquee.log"
	lockName     = "marquee.lock"
	socketName   = "marquee.sock"
)

// Default returns the settings applied when marquee.toml is absent or a key
// is unset.
func Default() Settings {
	return Settings{
		DebounceMS: 500,
	}
}
