package utils

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/sirupsen/logrus"
)

// WaitForCtrlC will block/wait until a control-c is pressed
func WaitForCtrlC() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

func HandleSubroutinePanic(identifier string) {
	if err := recover(); err != nil {
		panicErr, ok := err.(error)
		if !ok {
			panicErr = fmt.Errorf("%v", err)
		}
		logrus.WithError(panicErr).Errorf("uncaught panic in %v subroutine: %v, stack: %v", identifier, err, string(debug.Stack()))
	}
}
