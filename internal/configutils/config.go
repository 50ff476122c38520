package configutils

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"mrboard/internal/pkg/fs"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/tailscale/hujson"
)

const (
	ConfigDir       = "~/.config/mrboard"
	LocalConfigName = ".mrboardcfg"
	EnvPrefix       = "MRBOARD"
)

var filetypes = []string{"yaml", "json", "toml"}

type FlagSet interface {
	GetString(string) (string, error)
	GetBool(string) (bool, error)
}

type configMerger interface {
	MergeConfig(io.Reader) error
}

var (
	ErrHomeDirNotFound = errors.New("unable to determine the home directory")
	ErrConfigFileIsDir = errors.New("configuration file is a directory")
	ErrConfigNotFound  = errors.New("configuration file not found")
)

var mergeConfig = func(in io.Reader, cm configMerger) error {
	return cm.MergeConfig(in)
}

var fileExists = func(filename string, fsys fs.Filesystem) error {
	info, err := fsys.Stat(filename)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return ErrConfigFileIsDir
	}

	return nil
}

var loadFile = func(filename string, fsys fs.Filesystem) ([]byte, error) {
	err := fileExists(filename, fsys)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// JSON configs may carry comments and trailing commas.
var standardize = func(data []byte) ([]byte, error) {
	return hujson.Standardize(data)
}

var loadConfig = func(filename, filetype string, v *viper.Viper) error {
	data, err := loadFile(filename, fs.OS{})
	if err != nil {
		return err
	}

	if filetype == "json" {
		data, err = standardize(data)
		if err != nil {
			return errors.Wrapf(err, "invalid json in %s", filename)
		}
	}

	v.SetConfigType(filetype)
	return mergeConfig(bytes.NewReader(data), v)
}

var getConfigDir = func() (string, error) {
	return homedir.Expand(ConfigDir)
}

// filetypeOf guesses the format from the extension, falling back to every
// supported type in turn.
func filetypeOf(path string) []string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	for _, ft := range filetypes {
		if ft == ext {
			return []string{ft}
		}
	}

	return filetypes
}

func mergeFirst(v *viper.Viper, candidates map[string][]string, order []string) error {
	err := ErrConfigNotFound
	for _, f := range order {
		for _, ft := range candidates[f] {
			err = loadConfig(f, ft, v)
			if err == nil {
				return nil
			}
			log.Debug().
				Err(err).
				Msgf("config loading failed for %s as %s, skipping", f, ft)
		}
	}

	return err
}

// MergeGlobalConfig merges the config at path, or the first
// config.{yaml,json,toml} found in the config dir when path is empty.
func MergeGlobalConfig(v *viper.Viper, path string) error {
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return ErrHomeDirNotFound
		}

		err = mergeFirst(v, map[string][]string{expanded: filetypeOf(expanded)}, []string{expanded})
		return errors.Wrapf(err, "could not load config %s", path)
	}

	cfgDir, err := getConfigDir()
	if err != nil {
		return ErrHomeDirNotFound
	}

	candidates := make(map[string][]string, len(filetypes))
	order := make([]string, 0, len(filetypes))
	for _, ft := range filetypes {
		f := filepath.Join(cfgDir, fmt.Sprintf("config.%s", ft))
		candidates[f] = []string{ft}
		order = append(order, f)
	}

	err = mergeFirst(v, candidates, order)
	if err != nil {
		// Everything can come from the environment instead.
		log.Debug().Err(err).Msg("no global config loaded")
	}

	return nil
}

// MergeLocalConfig merges a .mrboardcfg found in dir, if any.
func MergeLocalConfig(v *viper.Viper, dir string) error {
	f := filepath.Join(dir, LocalConfigName)
	if err := fileExists(f, fs.OS{}); err != nil {
		return nil
	}

	err := mergeFirst(v, map[string][]string{f: filetypes}, []string{f})
	return errors.Wrap(err, "could not load local config")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.path", ConfigDir+"/projects-cache.json")
	v.SetDefault("gitlab.requests_per_second", 0)
	v.SetDefault("log.level", "warn")
}

// Load builds the configuration: defaults, then the global file, then the
// local file in dir, then MRBOARD_ environment variables.
func Load(path, dir string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	err := MergeGlobalConfig(v, path)
	if err != nil {
		return nil, err
	}

	if dir != "" {
		err = MergeLocalConfig(v, dir)
		if err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// LoadForWorkingDir loads the configuration with the local file taken from
// the current working directory.
func LoadForWorkingDir(path string, fsys fs.Filesystem) (*viper.Viper, error) {
	wd, err := fsys.Getwd()
	if err != nil {
		log.Debug().Err(err).Msg("cannot determine the working directory")
		wd = ""
	}

	return Load(path, wd)
}

func GetBoolFlagOrDefault(fs FlagSet, flag string, d bool) bool {
	v, err := fs.GetBool(flag)
	if err != nil {
		return d
	}

	return v
}

func GetStringFlagOrDefault(fs FlagSet, flag, d string) string {
	s, err := fs.GetString(flag)
	if err != nil || s == "" {
		return d
	}

	return s
}
