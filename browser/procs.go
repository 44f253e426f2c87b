package browser

import (
	"context"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
)

// browserProcessNames are matched exactly; driver names by substring.
var (
	browserProcessNames = []string{"chrome", "chrome.exe", "chromium", "chromium-browser", "headless_shell"}
	driverProcessNames  = []string{"chromedriver"}
)

// IsBrowserProcess reports whether a process name belongs to Chrome or its
// driver.
func IsBrowserProcess(name string) bool {
	for _, d := range driverProcessNames {
		if strings.Contains(name, d) {
			return true
		}
	}
	for _, b := range browserProcessNames {
		if name == b {
			return true
		}
	}
	return false
}

// KillStrays terminates every browser or driver process left behind by an
// earlier run, so they stop holding the user-data directory. It returns the
// number of processes signalled.
func KillStrays(ctx context.Context) int {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		logrus.Warnf("list processes: %v", err)
		return 0
	}

	self := int32(os.Getpid())
	killed := 0
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil || !IsBrowserProcess(name) {
			continue
		}
		if err := p.TerminateWithContext(ctx); err != nil {
			logrus.Warnf("terminate process %s (%d): %v", name, p.Pid, err)
			continue
		}
		logrus.Infof("terminated process: %s (%d)", name, p.Pid)
		killed++
	}
	return killed
}
