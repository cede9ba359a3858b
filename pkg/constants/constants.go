package constants

const (
	AppName      = "transfers"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "TRANSFERS"
	EnvFile      = ".env"
)

// Airport codes recognised when normalising a pickup address.
var AirportCodes = []string{"PUJ", "SDQ", "LRM", "POP"}
