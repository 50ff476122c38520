package utils

import "github.com/spf13/viper"

var config = viper.New()

// SetConfig stores the configuration loaded by the root command.
func SetConfig(v *viper.Viper) {
	config = v
}

func Config() *viper.Viper {
	return config
}
