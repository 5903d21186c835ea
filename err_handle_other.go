//go:build !windows
// +build !windows

package autoattach

import (
	"golang.org/x/sys/unix"
)

func isShouldFinishError(err error) bool {
	return err == unix.EBADF
}
