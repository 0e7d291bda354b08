package constraint

import "github.com/okian/lineup/internal/domain/model"

// Tally is an incremental per-team member count used while a selection is
// built level by level.
type Tally struct {
	pool   *model.Pool
	counts []int
	quota  int
}

// NewTally returns a tally enforcing quota members per team; quota <= 0
// disables it.
func NewTally(pool *model.Pool, quota int) *Tally {
	return &Tally{pool: pool, counts: make([]int, pool.Teams()), quota: quota}
}

// TryAdd adds members if no team goes over quota and reports success. On
// failure the tally is unchanged.
func (t *Tally) TryAdd(members []int) bool {
	if t.quota <= 0 {
		return true
	}
	for k, m := range members {
		team := t.pool.Team(m)
		t.counts[team]++
		if t.counts[team] > t.quota {
			t.remove(members[:k+1])
			return false
		}
	}
	return true
}

// Remove undoes a successful TryAdd.
func (t *Tally) Remove(members []int) {
	if t.quota <= 0 {
		return
	}
	t.remove(members)
}

func (t *Tally) remove(members []int) {
	for _, m := range members {
		t.counts[t.pool.Team(m)]--
	}
}

// Count returns the current count for team ordinal team.
func (t *Tally) Count(team int) int { return t.counts[team] }
