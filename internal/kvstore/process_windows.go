//go:build windows

package kvstore

import "syscall"

// isProcessRunning checks if a process with given PID is running on Windows.
// os.FindProcess succeeds for any PID there, so open a query handle instead.
func isProcessRunning(pid int) bool {
	const da = syscall.STANDARD_RIGHTS_READ | syscall.PROCESS_QUERY_INFORMATION | syscall.SYNCHRONIZE

	h, err := syscall.OpenProcess(da, false, uint32(pid))
	if err != nil {
		return false
	}
	syscall.CloseHandle(h)
	return true
}
