//go:build linux

package sysmon

import "golang.org/x/sys/unix"

// affinityCount returns the number of CPUs in the calling thread's
// scheduler affinity mask, which honours taskset and cgroup cpusets.
func affinityCount() (int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0, err
	}
	return set.Count(), nil
}
