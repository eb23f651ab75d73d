package gradebook

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/gradebook/core"
)

// Subject is one of the three fixed grade categories. Each Subject has its own storage partition.
type Subject int

const (
	Math Subject = iota + 1
	Science
	History
)

// Subjects lists every Subject in display order.
var Subjects = []Subject{Math, Science, History}

var subjectNames = map[Subject]string{
	Math:    "math",
	Science: "science",
	History: "history",
}

// ParseSubject maps a grade type to its Subject. Only the exact lowercase names match.
func ParseSubject(name string) (Subject, error) {
	for _, subj := range Subjects {
		if subjectNames[subj] == name {
			return subj, nil
		}
	}
	return 0, ErrUnknownSubject
}

func (s Subject) Valid() bool {
	_, ok := subjectNames[s]
	return ok
}

func (s Subject) String() string {
	if name, ok := subjectNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Subject(%d)", int(s))
}

func (s Subject) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrUnknownSubject
	}
	return []byte(s.String()), nil
}

func (s *Subject) UnmarshalText(text []byte) error {
	subj, err := ParseSubject(string(text))
	if err != nil {
		return err
	}
	*s = subj
	return nil
}

type Student struct {
	ID           int    `json:"id"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	EmailAddress string `json:"emailAddress"`
}

type Grade struct {
	ID        int     `json:"id"`
	StudentID int     `json:"studentId"`
	Grade     float64 `json:"grade"`
	Subject   Subject `json:"-"`
}

// StudentGrades holds one student's grades, one list per Subject. It is rebuilt on every read.
type StudentGrades struct {
	MathGradeResults    []Grade `json:"mathGradeResults"`
	ScienceGradeResults []Grade `json:"scienceGradeResults"`
	HistoryGradeResults []Grade `json:"historyGradeResults"`
}

func newStudentGrades() StudentGrades {
	return StudentGrades{
		MathGradeResults:    []Grade{},
		ScienceGradeResults: []Grade{},
		HistoryGradeResults: []Grade{},
	}
}

// For returns the grades of the given Subject.
func (sg StudentGrades) For(subj Subject) []Grade {
	switch subj {
	case Math:
		return sg.MathGradeResults
	case Science:
		return sg.ScienceGradeResults
	case History:
		return sg.HistoryGradeResults
	}
	return nil
}

func (sg *StudentGrades) set(subj Subject, grades []Grade) {
	if grades == nil {
		grades = []Grade{}
	}
	switch subj {
	case Math:
		sg.MathGradeResults = grades
	case Science:
		sg.ScienceGradeResults = grades
	case History:
		sg.HistoryGradeResults = grades
	}
}

type GradebookStudent struct {
	ID            int           `json:"id"`
	Firstname     string        `json:"firstname"`
	Lastname      string        `json:"lastname"`
	EmailAddress  string        `json:"emailAddress"`
	StudentGrades StudentGrades `json:"studentGrades"`
}

func newGradebookStudent(std Student, grades StudentGrades) GradebookStudent {
	return GradebookStudent{
		ID:            std.ID,
		Firstname:     std.Firstname,
		Lastname:      std.Lastname,
		EmailAddress:  std.EmailAddress,
		StudentGrades: grades,
	}
}

// Gradebook lists every student with their grades as of one read.
type Gradebook struct {
	Students []GradebookStudent `json:"students"`
}

// StudentView is a GradebookStudent with its per-subject averages.
// An invalid average means the subject has no grades ("N/A").
type StudentView struct {
	GradebookStudent
	MathAverage    null.Float64 `json:"mathAverage"`
	ScienceAverage null.Float64 `json:"scienceAverage"`
	HistoryAverage null.Float64 `json:"historyAverage"`
}

// Average returns the average of the given Subject.
func (sv StudentView) Average(subj Subject) null.Float64 {
	switch subj {
	case Math:
		return sv.MathAverage
	case Science:
		return sv.ScienceAverage
	case History:
		return sv.HistoryAverage
	}
	return null.Float64{}
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Firstname    string `json:"firstname" form:"firstname" validate:"required"`
	Lastname     string `json:"lastname" form:"lastname" validate:"required"`
	EmailAddress string `json:"emailAddress" form:"emailAddress" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Firstname = core.CleanString(ns.Firstname)
	ns.Lastname = core.CleanString(ns.Lastname)
	ns.EmailAddress = core.CleanString(ns.EmailAddress)
	return validate.Struct(ns)
}

// NewGrade contains information needed to grade a Student.
// Its values are checked by Service.CreateGrade, not by the validator.
type NewGrade struct {
	Grade     float64 `json:"grade" form:"grade" query:"grade"`
	GradeType string  `json:"gradeType" form:"gradeType" query:"gradeType"`
	StudentID int     `json:"studentId" form:"studentId" query:"studentId"`
}
