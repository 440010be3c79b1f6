//go:build !linux && !windows

package affinity

func pinOSThread(logicalCPU int) (func() error, error) {
	return nil, ErrUnsupported
}

func raiseThreadPriority() (prev int, had bool, err error) {
	return 0, false, ErrUnsupported
}

func restoreThreadPriority(prev int) error {
	return nil
}
