package internal

import (
	"fmt"

	"github.com/spf13/viper"
)

type BufMgrConfig struct {
	Storage struct {
		Workdir string `mapstructure:"workdir"`
		File    string `mapstructure:"file"`
	} `mapstructure:"storage"`
	Buffer struct {
		Frames int  `mapstructure:"frames"`
		Debug  bool `mapstructure:"debug"`
	} `mapstructure:"buffer"`
}

func LoadConfig(path string) (*BufMgrConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg BufMgrConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
