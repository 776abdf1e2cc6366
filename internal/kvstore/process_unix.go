//go:build unix

package kvstore

import "syscall"

// isProcessRunning checks if a process with given PID is running on Unix systems
func isProcessRunning(pid int) bool {
	// Signal 0 performs the existence and permission checks without
	// delivering anything
	err := syscall.Kill(pid, syscall.Signal(0))
	switch err {
	case nil:
		return true
	case syscall.ESRCH:
		return false
	case syscall.EPERM:
		// exists, owned by someone else
		return true
	default:
		return false
	}
}
