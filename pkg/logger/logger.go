// Package logger builds zap loggers for the command line tools.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type Config struct {
	// DevMode makes DPanic level logs panic.
	DevMode bool
	Level   zapcore.Level
	Mode    FileMode
	Path    string
}

// New returns a logger writing to conf.Path.  Logs sent to a terminal
// are console encoded; everything else is JSON.
func New(conf Config) (*zap.Logger, error) {
	w, err := OpenFile(conf.Path, conf.Mode)
	if err != nil {
		return nil, err
	}
	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if isTerminal(conf.Path) {
		encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConf)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConf)
	}
	core := zapcore.NewCore(encoder, w, conf.Level)
	opts := []zap.Option{zap.ErrorOutput(w)}
	if conf.DevMode {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func isTerminal(path string) bool {
	switch path {
	case "stdout":
		return term.IsTerminal(int(os.Stdout.Fd()))
	case "stderr", "":
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
	return false
}
