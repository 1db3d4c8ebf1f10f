package config

import (
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"

	"github.com/pocketdigest/pocketdigest/pkg/errors"
)

const (
	appName  = "pocketdigest"
	fileName = appName + ".toml"

	// EnvPath names the environment variable that points at the config file.
	EnvPath = "POCKETDIGEST_CONFIG"
)

// Path resolves the config file location: flag when set, then
// $POCKETDIGEST_CONFIG, then the XDG config directory. explicit reports
// whether the user named the file, in which case it must exist.
func Path(flag string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env, true
	}
	dir, err := Dir()
	if err != nil {
		return fileName, false
	}
	return filepath.Join(dir, fileName), false
}

// Dir returns the config directory using the XDG standard
// (~/.config/pocketdigest/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// LocalPath returns the override file for path: "a/b.toml" → "a/b.local.toml".
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Resolve loads the file Path(flag) names. A missing file that was not named
// explicitly yields the defaults.
func Resolve(flag string) (*Config, string, error) {
	path, explicit := Path(flag)
	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, errors.ErrCodeNotFound) {
		return Default(), "", nil
	}
	return cfg, path, err
}

// Load reads path over the defaults, then merges its local override file.
// Values in the override replace those of the main file; zero values in the
// override leave the main file's value in place.
func Load(path string) (*Config, error) {
	cfg := Default()

	found := false
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		found = true
		cfg.Unknown = undecoded(md)
	case !os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	local := LocalPath(path)
	var override Config
	md, err = toml.DecodeFile(local, &override)
	switch {
	case err == nil:
		found = true
		cfg.Unknown = append(cfg.Unknown, undecoded(md)...)
		if err := mergo.Merge(cfg, override, mergo.WithOverride); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "merge %s", local)
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", local)
	}

	if !found {
		return nil, errors.New(errors.ErrCodeNotFound, "no config file at %s", path)
	}
	return cfg, nil
}

// Parse decodes a config document over the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.Unknown = undecoded(md)
	return cfg, nil
}

func undecoded(md toml.MetaData) []string {
	var keys []string
	for _, k := range md.Undecoded() {
		keys = append(keys, k.String())
	}
	return keys
}
