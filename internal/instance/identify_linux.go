package instance

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Identify reads the process start time, in clock ticks since boot, from
// /proc/<pid>/stat.
func Identify(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat")
	if err != nil {
		return "", err
	}
	return parseStat(string(data))
}

// parseStat extracts starttime (field 22). The command name in field 2 is
// parenthesised and may contain spaces, so fields are counted after the last ')'.
func parseStat(stat string) (string, error) {
	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return "", fmt.Errorf("malformed stat line")
	}
	fields := strings.Fields(stat[end+1:])
	// fields[0] is field 3 (state).
	const startTime = 22 - 3
	if len(fields) <= startTime {
		return "", fmt.Errorf("stat line has %d fields", len(fields)+2)
	}
	if fields[0] == "Z" {
		return "", fmt.Errorf("process is a zombie")
	}
	return fields[startTime], nil
}
