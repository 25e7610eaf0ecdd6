package xlog

import (
	"go.uber.org/zap/zapcore"
)

func newConsoleCore(cfg *loggerCfg, lvlEnabler zapcore.LevelEnabler) (zapcore.Core, func() error) {
	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   cfg.lvlEncoder,
		TimeKey:       "ts",
		EncodeTime:    cfg.tsEncoder,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}

	var (
		ws   zapcore.WriteSyncer
		stop func() error
	)
	if cfg.out != nil {
		ws = zapcore.Lock(zapcore.AddSync(cfg.out))
	} else {
		ws, stop = getOutWriterByType(*cfg.writerType)
	}
	return zapcore.NewCore(getEncoderByType(*cfg.encoderType)(config), ws, lvlEnabler), stop
}
