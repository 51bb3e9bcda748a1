package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/yigit/studentportal/internal/config"
	"github.com/yigit/studentportal/internal/db"
	"github.com/yigit/studentportal/internal/pkg/auth"
	"github.com/yigit/studentportal/internal/pkg/dberrors"
	"github.com/yigit/studentportal/internal/pkg/helpers"
)

type demoStudent struct {
	id            int64
	username      string
	password      string
	name          string
	contact       string
	branch        string
	course        string
	email         string
	nameContactID string
	courseID      int64
	completed     bool
}

var (
	demoCourses = []struct {
		id   int64
		name string
	}{
		{1, "B.Tech"},
		{2, "M.Tech"},
		{3, "MBA"},
	}

	demoSubjects = []struct {
		id       int64
		name     string
		courseID int64
	}{
		{1, "Mathematics", 1},
		{2, "Physics", 1},
		{3, "Chemistry", 1},
		{4, "Data Structures", 1},
		{5, "Advanced Algorithms", 2},
		{6, "Distributed Systems", 2},
		{7, "Finance", 3},
		{8, "Marketing", 3},
	}

	demoStudents = []demoStudent{
		{1, "asha", "asha123", "Asha Rao", "9876543210", "CSE", "B.Tech, M.Tech", "asha@example.edu", "1", 1, false},
		{2, "ravi", "ravi123", "Ravi Kumar", "9123456780", "ECE", "MBA", "ravi@example.edu", "2", 3, true},
	}

	// student, course, status
	demoAssignments = []struct {
		id        int64
		studentID int64
		courseID  int64
		status    string
	}{
		{1, 1, 2, "pursuing"},
		{2, 2, 3, "completed"},
	}

	demoCompleted = [][2]int64{{1, 1}, {2, 7}, {2, 8}}
	demoPursuing  = [][2]int64{{1, 2}, {1, 3}}
)

// CreateDefaultData inserts the demo catalog and two demo students. Rows that
// already exist are left untouched, so it is safe to run on every start.
func CreateDefaultData(ctx context.Context, database *db.Database, passwordMode string, lgr zerolog.Logger) error {
	sb := database.Builder()
	var finalErr error
	inserted := 0

	insert := func(what string, q squirrel.InsertBuilder) {
		query, args, err := q.ToSql()
		if err != nil {
			finalErr = errors.Join(finalErr, fmt.Errorf("build %s insert: %w", what, err))
			return
		}
		if _, err := database.Conn.ExecContext(ctx, query, args...); err != nil {
			if dberrors.IsDuplicateKeyError(err) {
				return
			}
			lgr.Error().Err(err).Str("row", what).Msg("Error inserting default data")
			finalErr = errors.Join(finalErr, err)
			return
		}
		inserted++
	}

	lgr.Info().Msg("Checking/Creating default data (courses/subjects/students)...")

	for _, c := range demoCourses {
		insert("course", sb.Insert("course").Columns("id", "name").Values(c.id, c.name))
	}

	for _, s := range demoSubjects {
		insert("subject", sb.Insert("subject").Columns("id", "name", "course_id").Values(s.id, s.name, s.courseID))
	}

	for _, s := range demoStudents {
		password := s.password
		if passwordMode == config.PasswordModeBcrypt {
			hash, err := auth.HashPassword(s.password)
			if err != nil {
				finalErr = errors.Join(finalErr, fmt.Errorf("hash demo password: %w", err))
				continue
			}
			password = hash
		}

		insert("student", sb.Insert("student").
			Columns("id", "username", "password", "name", "contact", "branch", "course", "emailid", "name_contactid", "course_id", "completed").
			Values(
				s.id, s.username, password,
				helpers.GetContentNullString(s.name),
				helpers.GetContentNullString(s.contact),
				helpers.GetContentNullString(s.branch),
				helpers.GetContentNullString(s.course),
				helpers.GetContentNullString(s.email),
				helpers.GetContentNullString(s.nameContactID),
				helpers.GetNullInt64(s.courseID),
				s.completed,
			))
	}

	for _, a := range demoAssignments {
		insert("faculty_student", sb.Insert("faculty_student").
			Columns("id", "student_id", "course_id", "status").
			Values(a.id, a.studentID, a.courseID, a.status))
	}

	for _, pair := range demoCompleted {
		insert("completed_subjects", sb.Insert("completed_subjects").Columns("student_id", "subject_id").Values(pair[0], pair[1]))
	}

	for _, pair := range demoPursuing {
		insert("pursuing_subjects", sb.Insert("pursuing_subjects").Columns("student_id", "subject_id").Values(pair[0], pair[1]))
	}

	if database.Driver == config.DriverPostgres && inserted > 0 {
		// explicit ids leave the identity sequences behind
		for _, table := range []string{"course", "subject", "student", "faculty_student"} {
			stmt := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))", table)
			if _, err := database.Conn.ExecContext(ctx, stmt); err != nil {
				finalErr = errors.Join(finalErr, fmt.Errorf("reset %s sequence: %w", table, err))
			}
		}
	}

	lgr.Info().Int("inserted", inserted).Msg("Default data check complete")
	return finalErr
}
