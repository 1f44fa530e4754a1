// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sort"
	"sync"
	"time"
)

type Activity struct {
	Action    string     `json:"action"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy    bool              `json:"healthy"`
	LastAction *Activity         `json:"lastAction"`
	Checks     map[string]string `json:"checks"`
}

type probe struct {
	name  string
	check func() error
}

// Health aggregates liveness probes of the daemon's components.
type Health struct {
	lock         sync.RWMutex
	lastAction   string
	lastActionAt time.Time
	probes       []probe
}

func New() *Health {
	return &Health{}
}

// AddProbe registers a named check. A probe returning an error marks the daemon unhealthy.
func (h *Health) AddProbe(name string, check func() error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.probes = append(h.probes, probe{name, check})
	sort.Slice(h.probes, func(i, j int) bool { return h.probes[i].name < h.probes[j].name })
}

// NewAction records the latest pool action observed.
func (h *Health) NewAction(action string, at time.Time) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastAction = action
	h.lastActionAt = at
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{
		Healthy: true,
		Checks:  make(map[string]string, len(h.probes)),
	}
	if h.lastAction != "" {
		at := h.lastActionAt
		status.LastAction = &Activity{Action: h.lastAction, Timestamp: &at}
	}

	for _, p := range h.probes {
		if err := p.check(); err != nil {
			status.Healthy = false
			status.Checks[p.name] = err.Error()
			continue
		}
		status.Checks[p.name] = "ok"
	}
	return status, nil
}
