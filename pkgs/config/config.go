package config

import (
	"fmt"
	"strings"

	"github.com/keskad/dcc-core/pkgs/dcc"
	"github.com/spf13/viper"
)

// Track describes the timing and session parameters a command
// station (or this CLI's virtual one) drives the rails with.
type Track struct {
	NumPreamble  uint8
	Bit1Duration uint16
	Bit0Duration uint16
	BiDi         bool
}

// Loco is the contextual configuration of the locomotive the current
// working directory represents, loaded from loco.json the same way
// the original locomotive-scoped configuration was.
type Loco struct {
	LocoAddr uint16
	DID      uint64
}

type Configuration struct {
	Track Track
	Loco  Loco
}

// DCCConfig converts the track timing section into the dcc package's
// wire-level Config.
func (t Track) DCCConfig() dcc.Config {
	return dcc.Config{
		NumPreamble:  t.NumPreamble,
		Bit1Duration: t.Bit1Duration,
		Bit0Duration: t.Bit0Duration,
		Flags:        dcc.ConfigFlags{BiDi: t.BiDi},
	}
}

func NewConfig() (*Configuration, error) {
	config := Configuration{}

	// application-wide track timing configuration
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(".dcc")
	v.AddConfigPath("$HOME/")
	v.AddConfigPath(".")
	_ = v.SafeWriteConfig()

	v.SetDefault("track.numpreamble", 17)
	v.SetDefault("track.bit1duration", 58)
	v.SetDefault("track.bit0duration", 100)
	v.SetDefault("track.bidi", true)

	// contextual locomotive configuration (current working directory is a
	// locomotive directory that contains loco.json)
	l := viper.New()
	l.SetConfigType("json")
	l.SetConfigName("loco")
	l.AddConfigPath(".")
	_ = l.ReadInConfig()

	if err := v.ReadInConfig(); err != nil {
		return &Configuration{}, fmt.Errorf("cannot parse config: %s", err.Error())
	}
	if err := v.Unmarshal(&config); err != nil {
		return &config, fmt.Errorf("cannot parse config: %s", err.Error())
	}
	if err := l.ReadInConfig(); err != nil {
		// make loco.json fully optional
		if !strings.Contains(err.Error(), "Not Found") {
			return &Configuration{}, fmt.Errorf("cannot parse config: %s", err.Error())
		}
	}
	if err := l.Unmarshal(&config.Loco); err != nil {
		return &config, fmt.Errorf("cannot parse config: %s", err.Error())
	}

	return &config, nil
}
