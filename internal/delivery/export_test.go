package delivery

import "time"

func (r *Reconciler) SetClock(clock func() time.Time) {
	r.clock = clock
}
