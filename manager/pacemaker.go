package manager

import (
	"math/rand"
	"time"
)

// pacemaker fires the first tick after a jittered delay (0..interval) to avoid every shard of a
// large bot synchronizing its heartbeats, then settles into the steady interval the gateway
// requested via Hello.
type pacemaker struct {
	timer    *time.Timer
	interval time.Duration
}

func newPacemaker(interval time.Duration) *pacemaker {
	jitter := interval
	if interval > 0 {
		jitter = time.Duration(rand.Int63n(int64(interval)))
	}
	return &pacemaker{timer: time.NewTimer(jitter), interval: interval}
}

// C returns the channel that fires on each tick.
func (p *pacemaker) C() <-chan time.Time { return p.timer.C }

// reset rearms the pacemaker at the steady interval, dropping the initial jitter.
func (p *pacemaker) reset() { p.timer.Reset(p.interval) }

// stop releases the underlying timer.
func (p *pacemaker) stop() {
	if !p.timer.Stop() {
		select {
		case <-p.timer.C:
		default:
		}
	}
}
