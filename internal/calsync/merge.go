package calsync

import "github.com/sandeepkv93/questd/internal/model"

// Merge replaces every calendar task of existing with the fresh batch. User
// tasks keep their order and come first. Completion markers of a replaced
// calendar task carry over to the fresh task with the same id. Merging the
// same batch twice yields the same collection. A fresh task whose id is
// already held by a user task is dropped so ids stay unique.
func Merge(existing, fresh []model.Task) []model.Task {
	marks := make(map[string]model.Task)
	taken := make(map[string]bool)
	out := make([]model.Task, 0, len(existing)+len(fresh))
	for _, t := range existing {
		if t.IsCalendar() {
			marks[t.ID] = t
			continue
		}
		taken[t.ID] = true
		out = append(out, t.Clone())
	}
	for _, t := range Dedup(fresh) {
		if taken[t.ID] {
			continue
		}
		taken[t.ID] = true
		next := t.Clone()
		next.Kind = model.KindCalendar
		if prev, ok := marks[next.ID]; ok {
			next.Completed = prev.Completed
			next.LastCompletedAt = prev.LastCompletedAt
		}
		out = append(out, next)
	}
	return out
}
