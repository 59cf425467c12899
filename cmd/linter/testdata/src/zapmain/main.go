package main

import "go.uber.org/zap"

func main() {
	log := &zap.Logger{}
	log.Fatal("startup failed")
	helper(log)
}

func helper(log *zap.Logger) {
	log.Panic("boom") // want `zap Panic\(\) should only be called from main function in main package`
}
