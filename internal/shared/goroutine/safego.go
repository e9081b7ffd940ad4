// Package goroutine launches background work that must not take the process
// down on a panic.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/orris-inc/visitorpass/internal/shared/logger"
)

// Run starts fn in a goroutine and delivers its result on the returned
// channel, which is closed afterwards. A panic is logged with its stack and
// reported as an error.
func Run(log logger.Interface, name string, fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				done <- fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			done <- err
		}
	}()
	return done
}
