package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	if err := newRootCommand(logger).Execute(); err != nil {
		logger.WithError(err).Error("semaphore command failed")
		os.Exit(1)
	}
}
