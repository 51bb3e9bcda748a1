package models

import "strings"

// Course represents a course a student can be enrolled in.
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Subject belongs to exactly one course.
type Subject struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	CourseID int64  `json:"-" db:"course_id"`
}

// SplitCourseNames turns "B.Tech, M.Tech" into ["B.Tech" "M.Tech"], skipping blanks.
func SplitCourseNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
