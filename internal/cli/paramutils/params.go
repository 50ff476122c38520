package paramutils

import (
	"time"

	"github.com/spf13/pflag"
)

type FlagRepo interface {
	GetStringOrDefault(flag, d string) string
	GetBoolOrDefault(flag string, d bool) bool
	GetStringSliceOrDefault(flag string, d []string) []string
	GetDurationOrDefault(flag string, d time.Duration) time.Duration
	// GetOptionalBool is nil unless the flag was given explicitly.
	GetOptionalBool(flag string) *bool
}

func NewFlagRepo(flags *pflag.FlagSet) FlagRepo {
	return &PFlagSetWrapper{Flags: flags}
}

type PFlagSetWrapper struct {
	Flags *pflag.FlagSet
}

func (fs *PFlagSetWrapper) GetStringOrDefault(flag, d string) string {
	s, err := fs.Flags.GetString(flag)
	if err != nil || s == "" {
		return d
	}

	return s
}

func (fs *PFlagSetWrapper) GetBoolOrDefault(flag string, d bool) bool {
	s, err := fs.Flags.GetBool(flag)
	if err != nil {
		return d
	}

	return s
}

func (fs *PFlagSetWrapper) GetStringSliceOrDefault(flag string, d []string) []string {
	s, err := fs.Flags.GetStringSlice(flag)
	if err != nil || len(s) == 0 {
		return d
	}

	return s
}

func (fs *PFlagSetWrapper) GetDurationOrDefault(flag string, d time.Duration) time.Duration {
	s, err := fs.Flags.GetDuration(flag)
	if err != nil || s == 0 {
		return d
	}

	return s
}

func (fs *PFlagSetWrapper) GetOptionalBool(flag string) *bool {
	if !fs.Flags.Changed(flag) {
		return nil
	}

	b, err := fs.Flags.GetBool(flag)
	if err != nil {
		return nil
	}

	return &b
}

func ParseIDArg(args []string) string {
	id := ""
	if len(args) > 0 {
		id = args[0]
	}

	return id
}
