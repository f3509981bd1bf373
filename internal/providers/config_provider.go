package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"jumptimer/internal/structures"
)

const (
	defaultCountdownTicks = 3
	defaultTickLength     = time.Second
	defaultFrameInterval  = 16 * time.Millisecond
	defaultCacheTTL       = 5 * time.Second
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("timer.countdownTicks", defaultCountdownTicks)
	v.SetDefault("timer.tickLength", defaultTickLength)
	v.SetDefault("timer.frameInterval", defaultFrameInterval)
	v.SetDefault("timer.autoSave", true)
	v.SetDefault("persistence.compress", true)
	v.SetDefault("cache.ttl", defaultCacheTTL)

	v.BindEnv("logger.level", "JT_LOG_LEVEL")
	v.BindEnv("persistence.saveInterval", "JT_SAVE_INTERVAL")
	v.BindEnv("timer.autoSave", "JT_AUTOSAVE")
	v.BindEnv("timer.countdownTicks", "JT_COUNTDOWN_TICKS")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "JumpTimer"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
