package services

import "github.com/yigit/studentportal/internal/app/models"

// SubjectBuckets is the classification of one course's subjects for a student.
// Each bucket keeps the order of the input subjects.
type SubjectBuckets struct {
	Pursuing  []models.Subject
	Completed []models.Subject
	Pending   []models.Subject
}

// ClassifySubjects splits subjects into completed, pursuing and pending.
// A subject listed as both completed and pursuing counts as completed.
// The buckets are disjoint and together contain every input subject.
func ClassifySubjects(subjects []models.Subject, completed, pursuing []int64) SubjectBuckets {
	completedSet := make(map[int64]struct{}, len(completed))
	for _, id := range completed {
		completedSet[id] = struct{}{}
	}
	pursuingSet := make(map[int64]struct{}, len(pursuing))
	for _, id := range pursuing {
		pursuingSet[id] = struct{}{}
	}

	buckets := SubjectBuckets{
		Pursuing:  []models.Subject{},
		Completed: []models.Subject{},
		Pending:   []models.Subject{},
	}
	for _, subject := range subjects {
		if _, ok := completedSet[subject.ID]; ok {
			buckets.Completed = append(buckets.Completed, subject)
			continue
		}
		if _, ok := pursuingSet[subject.ID]; ok {
			buckets.Pursuing = append(buckets.Pursuing, subject)
			continue
		}
		buckets.Pending = append(buckets.Pending, subject)
	}
	return buckets
}

// MergeCourses concatenates course lists, keeping the first occurrence of each id
func MergeCourses(sources ...[]models.Course) []models.Course {
	seen := make(map[int64]struct{})
	merged := []models.Course{}
	for _, source := range sources {
		for _, course := range source {
			if _, dup := seen[course.ID]; dup {
				continue
			}
			seen[course.ID] = struct{}{}
			merged = append(merged, course)
		}
	}
	return merged
}
