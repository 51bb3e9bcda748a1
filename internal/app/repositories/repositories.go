package repositories

import (
	"github.com/yigit/studentportal/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository *StudentRepository
	CourseRepository  *CourseRepository
	SubjectRepository *SubjectRepository
	HealthRepository  *HealthRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.Database) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(database),
		CourseRepository:  NewCourseRepository(database),
		SubjectRepository: NewSubjectRepository(database),
		HealthRepository:  NewHealthRepository(database),
	}
}
