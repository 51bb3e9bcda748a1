package portalclient

import (
	"fmt"
	"io"

	"github.com/yigit/studentportal/internal/app/models/dto"
)

// Render writes the view as plain text
func Render(w io.Writer, snap Snapshot) error {
	switch snap.State {
	case StateIdle:
		_, err := fmt.Fprintln(w, "Select a course to view its subjects.")
		return err
	case StateLoading:
		_, err := fmt.Fprintf(w, "Loading %s...\n", snap.Course)
		return err
	case StateError:
		_, err := fmt.Fprintf(w, "Error: %v\n", snap.Err)
		return err
	}

	course := snap.Course
	if course == "" {
		course = "(primary)"
	}
	if _, err := fmt.Fprintf(w, "Course: %s\n", course); err != nil {
		return err
	}

	var pursuing, completed, pending []dto.CourseItem
	if snap.Details != nil {
		pursuing = snap.Details.PursuingSubjects
		completed = snap.Details.CompletedSubjects
		pending = snap.Details.PendingSubjects
	}

	sections := []struct {
		title string
		empty string
		items []dto.CourseItem
	}{
		{"Pursuing Subjects", "No pursuing subjects", pursuing},
		{"Completed Subjects", "No completed subjects", completed},
		{"Pending Subjects", "No pending subjects", pending},
	}
	for _, s := range sections {
		if err := renderList(w, s.title, s.empty, s.items); err != nil {
			return err
		}
	}
	return nil
}

func renderList(w io.Writer, title, empty string, items []dto.CourseItem) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintf(w, "  %s\n", empty)
		return err
	}
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "  - %s\n", item.Name); err != nil {
			return err
		}
	}
	return nil
}
