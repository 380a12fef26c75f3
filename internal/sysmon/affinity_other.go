//go:build !linux

package sysmon

import "errors"

func affinityCount() (int, error) {
	return 0, errors.New("scheduler affinity not supported on this platform")
}
