package browser

import (
	"context"
	"time"
)

var NavigatePage = navigate

func (m *Manager) Tab() *Tab { return m.tab }

// SetKillStrays replaces OS process termination and returns a counter of
// how often it ran.
func (m *Manager) SetKillStrays() *int {
	calls := 0
	m.killStrays = func(context.Context) int {
		calls++
		return 0
	}
	return &calls
}

// AttachDeadTab installs a tab whose context has no browser behind it.
func (m *Manager) AttachDeadTab() {
	m.tab = newTab(context.Background(), time.Second)
	m.cancelTab = func() {}
	m.cancelAlloc = func() {}
}
