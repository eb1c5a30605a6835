package arscene

import "container/heap"

// Timeline is a deferred-task queue keyed by virtual time. It is advanced
// by the same frame clock that drives tweens, so scheduled work is
// deterministic and needs no wall-clock waiting.
type Timeline struct {
	now   float64
	seq   uint64
	queue taskQueue
}

type timedTask struct {
	due float64
	seq uint64
	fn  func()
}

// Now returns the current virtual time in seconds.
func (tl *Timeline) Now() float64 {
	return tl.now
}

// Len returns the number of pending tasks.
func (tl *Timeline) Len() int {
	return len(tl.queue)
}

// After schedules fn to run once delay seconds of virtual time have
// elapsed. Negative delays are treated as zero. Tasks never run inside
// After; a zero-delay task runs on the next Advance.
func (tl *Timeline) After(delay float64, fn func()) {
	if delay < 0 {
		delay = 0
	}
	tl.seq++
	heap.Push(&tl.queue, timedTask{due: tl.now + delay, seq: tl.seq, fn: fn})
}

// Advance moves virtual time forward by dt and runs every task whose due
// time has been reached, ordered by due time then scheduling order. Tasks
// scheduled while advancing run in the same call if they are already due.
func (tl *Timeline) Advance(dt float64) {
	if dt > 0 {
		tl.now += dt
	}
	for len(tl.queue) > 0 && tl.queue[0].due <= tl.now {
		task := heap.Pop(&tl.queue).(timedTask)
		task.fn()
	}
}

// taskQueue implements heap.Interface ordered by (due, seq).
type taskQueue []timedTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(timedTask)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = timedTask{}
	*q = old[:n-1]
	return t
}
