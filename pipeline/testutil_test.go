package pipeline

import "go.uber.org/zap"

func noopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
