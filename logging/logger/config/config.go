package config

import (
	"github.com/spf13/viper"
)

// Default sensitive field names masked in log fields
var defaultMaskFields = []string{
	"password", "passwd", "pwd",
	"token", "access_token", "refresh_token",
	"secret", "api_key", "apikey",
}

// Config configuration struct
type Config struct {
	Level      int      `json:"level" yaml:"level"`
	Format     string   `json:"format" yaml:"format"`
	Output     string   `json:"output" yaml:"output"`
	OutputFile string   `json:"output_file" yaml:"output_file"`
	MaskFields []string `json:"mask_fields" yaml:"mask_fields"`
}

// GetConfig returns the logger configuration. Level follows logrus, 4 is
// info and the default.
func GetConfig(v *viper.Viper) *Config {
	c := &Config{
		Level:      4,
		Format:     "text",
		Output:     "stderr",
		MaskFields: defaultMaskFields,
	}
	if !v.IsSet("logger") {
		return c
	}
	if v.IsSet("logger.level") {
		c.Level = v.GetInt("logger.level")
	}
	if f := v.GetString("logger.format"); f != "" {
		c.Format = f
	}
	if o := v.GetString("logger.output"); o != "" {
		c.Output = o
	}
	c.OutputFile = v.GetString("logger.output_file")
	if fields := v.GetStringSlice("logger.mask_fields"); len(fields) > 0 {
		c.MaskFields = fields
	}
	return c
}
