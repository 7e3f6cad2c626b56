package consts

import "strings"

// Mode selects the Alma environment a client talks to.
type Mode string

const (
	ModeLive Mode = "live"
	ModeTest Mode = "test"
)

func (m Mode) Valid() bool {
	return m == ModeLive || m == ModeTest
}

func (m Mode) String() string {
	return string(m)
}

// ModeForAPIKey infers the mode from an API key prefix.
func ModeForAPIKey(key string) Mode {
	if strings.HasPrefix(key, LiveAPIKeyPrefix) {
		return ModeLive
	}
	return ModeTest
}
