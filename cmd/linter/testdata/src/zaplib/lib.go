package zaplib

import "go.uber.org/zap"

type fakeLogger struct{}

func (fakeLogger) Fatal(string) {}

func Sign(log *zap.Logger) {
	log.Info("signing")
	log.Fatal("key missing") // want `zap Fatal\(\) should only be called from main function in main package`
	log.DPanic("odd")        // want `zap DPanic\(\) should only be called from main function in main package`
	fakeLogger{}.Fatal("not zap")
}
