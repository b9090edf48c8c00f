package main

import (
	"github.com/kbukum/chatrelay/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Fatal("relay exited", logger.ErrorFields("run", err))
	}
}
