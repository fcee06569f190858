package colorwheel

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"forme"
)

// tomlFile is the on-disk shape of a gradient-palette config file (spec
// SPEC_FULL.md §B "Configuration"): a named list of stops plus speed/
// steps, the same shape a themed application would ship alongside its
// other theme data.
type tomlFile struct {
	Wheels []tomlWheel `toml:"wheel"`
}

type tomlWheel struct {
	Name  string   `toml:"name"`
	Kind  string   `toml:"kind"` // "rgb" | "rgb_random" | "ansi256" | "lolcat"
	Stops []string `toml:"stops"`
	Speed string   `toml:"speed"` // "slow" | "medium" | "fast"
	Steps int      `toml:"steps"`
	Ansi  []int    `toml:"ansi_indices"`

	LolcatSeed  float64 `toml:"lolcat_seed"`
	LolcatSpeed float64 `toml:"lolcat_speed"`
	LolcatBG    bool    `toml:"lolcat_background"`
}

// LoadConfigsTOML loads a list of named ColorWheelConfig entries from a
// TOML file at path, in the shape a full application's theme file would
// use (spec SPEC_FULL.md §B/§C: BurntSushi/toml, indirect-only in the
// teacher's go.mod, gets its first direct call site here).
func LoadConfigsTOML(path string) (map[string]Config, error) {
	var f tomlFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("colorwheel: load %s: %w", path, err)
	}
	out := make(map[string]Config, len(f.Wheels))
	for _, w := range f.Wheels {
		cfg, err := w.toConfig()
		if err != nil {
			return nil, fmt.Errorf("colorwheel: wheel %q: %w", w.Name, err)
		}
		out[w.Name] = cfg
	}
	return out, nil
}

func (w tomlWheel) toConfig() (Config, error) {
	speed := parseSpeed(w.Speed)
	switch w.Kind {
	case "rgb":
		stops := make([]forme.Color, 0, len(w.Stops))
		for _, hex := range w.Stops {
			c, err := parseHexColor(hex)
			if err != nil {
				return Config{}, err
			}
			stops = append(stops, c)
		}
		return RgbConfig(stops, speed, w.Steps), nil
	case "rgb_random":
		return RgbRandomConfig(speed), nil
	case "ansi256":
		indices := make([]uint8, 0, len(w.Ansi))
		for _, n := range w.Ansi {
			indices = append(indices, uint8(n))
		}
		return Ansi256Config(indices, speed), nil
	case "lolcat":
		return LolcatConfig(LolcatBuilder{
			Seed:             w.LolcatSeed,
			ColorChangeSpeed: w.LolcatSpeed,
			Background:       w.LolcatBG,
		}), nil
	default:
		return Config{}, fmt.Errorf("unknown wheel kind %q", w.Kind)
	}
}

func parseSpeed(s string) Speed {
	switch s {
	case "slow":
		return SpeedSlow
	case "fast":
		return SpeedFast
	default:
		return SpeedMedium
	}
}

// parseHexColor parses a "#rrggbb" string. The hex-color parser is
// assumed as a primitive per spec.md §1; this is the minimal form that
// primitive needs to take for a TOML stop list.
func parseHexColor(s string) (forme.Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return forme.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return forme.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return forme.RGB(r, g, b), nil
}
