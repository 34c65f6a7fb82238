//go:build unix

package reactor

import "syscall"

var defaultShutdownSignal = syscall.SIGUSR1
