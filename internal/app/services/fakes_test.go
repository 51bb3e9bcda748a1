package services

import (
	"context"
	"errors"

	"github.com/yigit/studentportal/internal/app/models"
	"github.com/yigit/studentportal/internal/pkg/apperrors"
)

var errStoreDown = apperrors.NewStoreError("fake", errors.New("connection refused"))

type fakeStudents struct {
	byID  map[int64]models.Student
	calls int
	err   error
}

func (f *fakeStudents) find(match func(models.Student) bool) (*models.Student, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.byID {
		if match(s) {
			s := s
			return &s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudents) GetByCredentials(_ context.Context, username, password string) (*models.Student, error) {
	student, err := f.find(func(s models.Student) bool { return s.Username == username && s.Password == password })
	if student != nil {
		student.Password = ""
	}
	return student, err
}

func (f *fakeStudents) GetByUsername(_ context.Context, username string) (*models.Student, error) {
	return f.find(func(s models.Student) bool { return s.Username == username })
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	student, err := f.find(func(s models.Student) bool { return s.ID == id })
	if student != nil {
		student.Password = ""
	}
	return student, err
}

func (f *fakeStudents) GetCourseID(ctx context.Context, id int64) (int64, error) {
	student, err := f.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return student.CourseID, nil
}

type fakeCourses struct {
	catalog          []models.Course
	pursuing         []models.Course
	facultyCompleted []models.Course
	primaryCompleted []models.Course
	err              error
}

func (f *fakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	for _, c := range f.catalog {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourses) GetByName(_ context.Context, name string) (*models.Course, error) {
	for _, c := range f.catalog {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourses) PursuingCourses(context.Context, int64) ([]models.Course, error) {
	return f.pursuing, f.err
}

func (f *fakeCourses) FacultyCompletedCourses(context.Context, int64) ([]models.Course, error) {
	return f.facultyCompleted, f.err
}

func (f *fakeCourses) PrimaryCompletedCourses(context.Context, int64) ([]models.Course, error) {
	return f.primaryCompleted, nil
}

type fakeSubjects struct {
	byCourse  map[int64][]models.Subject
	completed []int64
	pursuing  []int64
	err       error
}

func (f *fakeSubjects) ListByCourse(_ context.Context, courseID int64) ([]models.Subject, error) {
	return f.byCourse[courseID], f.err
}

func (f *fakeSubjects) CompletedSubjectIDs(context.Context, int64) ([]int64, error) {
	return f.completed, nil
}

func (f *fakeSubjects) PursuingSubjectIDs(context.Context, int64) ([]int64, error) {
	return f.pursuing, nil
}
