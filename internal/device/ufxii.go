package device

// UFXII is the RME Fireface UFX II: 24 inputs, 16 outputs, DURec recorder,
// room EQ, and pre/post-FX level meters.
var UFXII = Descriptor{
	ID:      "ufxii",
	Name:    "Fireface UFX II",
	Version: 30,
	Flags:   FlagDURec | FlagRoomEQ | FlagFXLevels,
	Inputs: []Channel{
		{Name: "Mic/Line 1", Flags: InputGain | Input48V},
		{Name: "Mic/Line 2", Flags: InputGain | Input48V},
		{Name: "Mic/Line 3", Flags: InputGain | Input48V},
		{Name: "Mic/Line 4", Flags: InputGain | Input48V},
		{Name: "Inst/Line 5", Flags: InputGain | InputRefLevel},
		{Name: "Inst/Line 6", Flags: InputGain | InputRefLevel},
		{Name: "Inst/Line 7", Flags: InputGain | InputRefLevel},
		{Name: "Inst/Line 8", Flags: InputGain | InputRefLevel},
		{Name: "Analog 9", Flags: InputGain | InputRefLevel},
		{Name: "Analog 10", Flags: InputGain | InputRefLevel},
		{Name: "Analog 11", Flags: InputGain | InputRefLevel},
		{Name: "Analog 12", Flags: InputGain | InputRefLevel},
		{Name: "SPDIF L"},
		{Name: "SPDIF R"},
		{Name: "AES L"},
		{Name: "AES R"},
		{Name: "ADAT 1"},
		{Name: "ADAT 2"},
		{Name: "ADAT 3"},
		{Name: "ADAT 4"},
		{Name: "ADAT 5"},
		{Name: "ADAT 6"},
		{Name: "ADAT 7"},
		{Name: "ADAT 8"},
	},
	Outputs: []Channel{
		{Name: "Analog 1", Flags: OutputRefLevel},
		{Name: "Analog 2", Flags: OutputRefLevel},
		{Name: "Analog 3", Flags: OutputRefLevel},
		{Name: "Analog 4", Flags: OutputRefLevel},
		{Name: "Analog 5", Flags: OutputRefLevel},
		{Name: "Analog 6", Flags: OutputRefLevel},
		{Name: "Analog 7", Flags: OutputRefLevel},
		{Name: "Analog 8", Flags: OutputRefLevel},
		{Name: "Phones 9", Flags: OutputRefLevel},
		{Name: "Phones 10", Flags: OutputRefLevel},
		{Name: "Phones 11", Flags: OutputRefLevel},
		{Name: "Phones 12", Flags: OutputRefLevel},
		{Name: "SPDIF L"},
		{Name: "SPDIF R"},
		{Name: "AES L"},
		{Name: "AES R"},
	},
}
