package fnlog

import (
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/structpb"
)

// Hook returns a logrus hook that forwards entries through the configured
// sink at their mapped severity, keeping third-party code that already logs
// via logrus on the single pipeline. The logrus logger's own output should be
// discarded after registering the hook:
//
//	logrus.AddHook(fnlog.Hook())
//	logrus.SetOutput(io.Discard)
func Hook() logrus.Hook {
	return logrusHook{}
}

type logrusHook struct{}

func (logrusHook) Levels() []logrus.Level { return logrus.AllLevels }

func (logrusHook) Fire(src *logrus.Entry) error {
	e := &entry{
		Message:   src.Message,
		Level:     logrusLevel(src.Level),
		Component: "logrus",
		Ctx:       src.Context,
	}
	if len(src.Data) > 0 {
		if payload, err := structpb.NewStruct(map[string]interface{}(src.Data)); err == nil {
			e.Payload = payload
		}
	}
	currentSink().emit(e)
	return nil
}

func logrusLevel(level logrus.Level) LogLevel {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return LevelDebug
	case logrus.WarnLevel:
		return LevelWarning
	case logrus.ErrorLevel:
		return LevelError
	case logrus.FatalLevel:
		return LevelCritical
	case logrus.PanicLevel:
		return LevelAlert
	default:
		return LevelInfo
	}
}
