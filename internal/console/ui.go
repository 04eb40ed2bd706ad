package console

import (
	"sync"
	"time"

	"github.com/xrplkit/walletconsole/log"
)

const maxNotices = 50

// Notice one message surfaced to the operator
type Notice struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// UIState the headless stand in for a front end: it tracks the busy
// spinner, the last unsigned transaction preview and a ring of recent
// notices for the status endpoint.
type UIState struct {
	mu      sync.Mutex
	busy    bool
	notices []Notice
	preview map[string]interface{}
}

// NewUIState builds an idle UI state
func NewUIState() *UIState {
	return &UIState{}
}

// SetBusy raises or clears the busy flag
func (u *UIState) SetBusy(busy bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.busy = busy
}

// Busy reports whether a submission is in flight
func (u *UIState) Busy() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.busy
}

// Notify records a notice and logs it
func (u *UIState) Notify(level, message string) {
	log.Info("console notice", "level", level, "message", message)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notices = append(u.notices, Notice{Level: level, Message: message, Time: time.Now()})
	if len(u.notices) > maxNotices {
		u.notices = u.notices[len(u.notices)-maxNotices:]
	}
}

// Preview remembers the unsigned transaction about to be signed
func (u *UIState) Preview(txJSON map[string]interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.preview = txJSON
}

// LastPreview returns the most recent unsigned transaction, nil when
// nothing was submitted yet
func (u *UIState) LastPreview() map[string]interface{} {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.preview
}

// Notices returns a copy of the recent notices, newest last
func (u *UIState) Notices() []Notice {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Notice, len(u.notices))
	copy(out, u.notices)
	return out
}
