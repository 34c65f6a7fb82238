//go:build !unix

package reactor

import "os"

var defaultShutdownSignal = os.Interrupt
