package app

import (
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "FACTIVA2CSV"

// bindEnv lets FACTIVA2CSV_<KEY> override file settings, e.g.
// FACTIVA2CSV_WORKERS=4 or FACTIVA2CSV_EXTENSIONS=.rtf,.txt.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key := range flagKeys {
		_ = v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key))
	}
}
