package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"jumptimer/internal/structures"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeTimer
	TypeStorage
	TypeGet
	TypePost
)

func (t TypeEnum) String() string {
	switch t {
	case TypeTimer:
		return "timer"
	case TypeStorage:
		return "storage"
	case TypeGet:
		return "get"
	case TypePost:
		return "post"
	default:
		return "app"
	}
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	app    zerolog.Logger
	access zerolog.Logger
	files  []*os.File
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	if err := os.MkdirAll(conf.Logger.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	mode := os.FileMode(conf.Logger.Mode)
	appFile, err := os.OpenFile(filepath.Join(conf.Logger.Dir, "app.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		return nil, err
	}
	accessFile, err := os.OpenFile(filepath.Join(conf.Logger.Dir, "access.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, mode)
	if err != nil {
		appFile.Close()
		return nil, err
	}

	var appOut io.Writer = appFile
	if conf.Debug {
		console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		appOut = zerolog.MultiLevelWriter(appFile, console)
	}

	return &LogProvider{
		app:    zerolog.New(appOut).Level(level).With().Timestamp().Logger(),
		access: zerolog.New(accessFile).Level(level).With().Timestamp().Logger(),
		files:  []*os.File{appFile, accessFile},
	}, nil
}

func (l *LogProvider) target(t TypeEnum) *zerolog.Logger {
	if t == TypeGet || t == TypePost {
		return &l.access
	}
	return &l.app
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.target(t).Error().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.target(t).Warn().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.target(t).Debug().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.target(t).Info().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.target(t).Fatal().Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Sync()
		_ = f.Close()
	}
}
