package chameleon

import (
	"os"

	"github.com/BurntSushi/toml"
)

// ProjectConfig is the decoded form of a chameleon.toml file (SPEC_FULL.md
// §10.3), providing defaults the CLI flags (SPEC_FULL.md §4.5) override
// when set explicitly.
type ProjectConfig struct {
	Entrypoint string `toml:"entrypoint"`
	Prefix     string `toml:"prefix"`
	Baby       bool   `toml:"baby"`
	ThreadSafe bool   `toml:"thread_safe"`
	Seed       uint64 `toml:"seed"`
}

// LoadProjectConfig reads and decodes a chameleon.toml file. A missing
// file is not an error: it returns a zero ProjectConfig so callers can
// always layer CLI flags on top unconditionally.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	var cfg ProjectConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, newIoError(path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, newIoError(path, err)
	}
	return cfg, nil
}
