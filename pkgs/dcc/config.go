package dcc

// Config bundles the handful of track-timing parameters a host may
// tune: preamble length and the two bit durations for the transmit
// pipeline, the BiDi UART bit duration for channel sampling, and a
// handful of track-dependent feature flags.
type Config struct {
	NumPreamble     uint8
	Bit1Duration    uint16
	Bit0Duration    uint16
	BiDiBitDuration uint16
	Flags           ConfigFlags
}

// ConfigFlags are track-dependent toggles carried alongside Config.
type ConfigFlags struct {
	// BiDi enables cut-out insertion in the transmit pipeline; the
	// receive path does not read it.
	BiDi bool
	// Invert is carried in Config only; no package of this module
	// reads it, so the track outputs are never swapped.
	Invert bool
	// Zimo0 is carried in Config only; no package of this module
	// reads it, so timings are the same whether it is set or not.
	Zimo0 bool
}

// DefaultConfig returns the nominal configuration: 17 preamble bits,
// standard bit timings, BiDi enabled.
func DefaultConfig() Config {
	return Config{
		NumPreamble:     MinPreambleBits,
		Bit1Duration:    Bit1Norm,
		Bit0Duration:    Bit0Norm,
		BiDiBitDuration: 58,
		Flags:           ConfigFlags{BiDi: true},
	}
}
