package engine

import (
	"coursetrack/models/course"
	"coursetrack/models/progress"
)

// Recompute refreshes the derived fields of a progress record against
// the course snapshot: chapters and quizzes absent from the record
// count as incomplete. Attempts and scores are left untouched. A course
// with no chapters and no quizzes is never completed.
//
// Percentage is truncated integer math, matching the one-third steps of
// a two-chapter one-quiz course (33, 66, 100). A quiz counts once it
// has ever been passed, so the percentage never decreases when a later
// attempt fails.
func Recompute(snap *course.Snapshot, rec *progress.Record) {
	total := snap.TotalItems()
	if total == 0 {
		rec.CompletionPercentage = 0
		rec.IsCompleted = false
		return
	}

	done := 0
	for _, ch := range snap.Chapters {
		if st, ok := rec.Chapters[ch.ID]; ok && st.Completed {
			done++
		}
	}
	for _, q := range snap.Quizzes {
		if st, ok := rec.Quizzes[q.ID]; ok && st.Cleared {
			done++
		}
	}

	rec.CompletionPercentage = done * 100 / total
	rec.IsCompleted = done == total
}
