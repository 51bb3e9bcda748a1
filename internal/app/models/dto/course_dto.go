package dto

import "github.com/yigit/studentportal/internal/app/models"

// CourseItem is the {id, name} pair every course and subject list is made of
type CourseItem struct {
	ID   int64  `json:"id" example:"3"`
	Name string `json:"name" example:"Chemistry"`
}

// CoursesResponse is the body of the pursuing/completed/pending endpoints
type CoursesResponse struct {
	Courses []CourseItem `json:"courses"`
}

// CourseDetails carries the three classified subject lists of one course
type CourseDetails struct {
	CourseID          int64        `json:"courseId"`
	CourseName        string       `json:"courseName"`
	PursuingSubjects  []CourseItem `json:"pursuingSubjects"`
	CompletedSubjects []CourseItem `json:"completedSubjects"`
	PendingSubjects   []CourseItem `json:"pendingSubjects"`
}

// CourseDetailsResponse is the body of the details endpoint
type CourseDetailsResponse struct {
	Success bool           `json:"success"`
	Data    *CourseDetails `json:"data"`
}

// FromCourses converts courses to list items, never returning nil
func FromCourses(courses []models.Course) []CourseItem {
	items := make([]CourseItem, 0, len(courses))
	for _, c := range courses {
		items = append(items, CourseItem{ID: c.ID, Name: c.Name})
	}
	return items
}

// FromSubjects converts subjects to list items, never returning nil
func FromSubjects(subjects []models.Subject) []CourseItem {
	items := make([]CourseItem, 0, len(subjects))
	for _, s := range subjects {
		items = append(items, CourseItem{ID: s.ID, Name: s.Name})
	}
	return items
}
