package models

// Student defines the student model based on the 'student' table
type Student struct {
	ID            int64  `json:"id" db:"id" example:"1"`
	Username      string `json:"username" db:"username" example:"asha"`
	Password      string `json:"-" db:"password"` // never serialised
	Name          string `json:"name" db:"name" example:"Asha Rao"`
	Contact       string `json:"contact" db:"contact" example:"9876543210"`
	Branch        string `json:"branch" db:"branch" example:"CSE"`
	Course        string `json:"course" db:"course" example:"B.Tech"` // display names of the assigned courses
	EmailID       string `json:"Emailid" db:"emailid" example:"asha@example.edu"`
	NameContactID string `json:"name_contactid" db:"name_contactid" example:"1"`
	CourseID      int64  `json:"-" db:"course_id"`
}

// CourseNames splits the display string into the individual course names.
func (s *Student) CourseNames() []string {
	return SplitCourseNames(s.Course)
}
