package gradebook

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrNotFound       = errors.New("student or grade not found")
	ErrUnknownSubject = errors.New("unknown subject")
)

// Grade bounds, inclusive.
const (
	MinGrade = 0.0
	MaxGrade = 100.0
)

type (
	// Repository is the Grade Store: students plus one grade partition per Subject.
	// Getters return ErrNotFound when nothing matches; QueryX methods return rows in store order.
	Repository interface {
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		CreateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id int) error

		QueryGrades(ctx context.Context, subj Subject) ([]Grade, error)
		GetGrade(ctx context.Context, subj Subject, id int) (Grade, error)
		QueryGradesByStudent(ctx context.Context, subj Subject, studentID int) ([]Grade, error)
		CreateGrade(ctx context.Context, grade Grade) (Grade, error)
		DeleteGrade(ctx context.Context, subj Subject, id int) error
		DeleteGradesByStudent(ctx context.Context, subj Subject, studentID int) error
	}

	// Store is a Repository that can run a unit of work atomically.
	Store interface {
		Repository

		// InTx runs fn against a Repository bound to a single transaction.
		// The transaction is committed if fn returns nil and rolled back otherwise.
		InTx(ctx context.Context, fn func(repo Repository) error) error
	}

	Service struct {
		store  Store
		logger core.Logger
	}
)

func NewService(store Store, logger core.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// StudentExists reports whether a Student with this id is in the store.
func (svc *Service) StudentExists(ctx context.Context, id int) (bool, error) {
	return studentExists(ctx, svc.store, id)
}

func studentExists(ctx context.Context, repo Repository, id int) (bool, error) {
	if _, err := repo.GetStudent(ctx, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "finding student by ID")
	}
	return true, nil
}

// GradeExists reports whether the grade exists in the partition named by gradeType.
// An unknown gradeType is reported as a missing grade.
func (svc *Service) GradeExists(ctx context.Context, id int, gradeType string) (bool, error) {
	subj, err := ParseSubject(gradeType)
	if err != nil {
		return false, nil
	}
	if _, err = svc.store.GetGrade(ctx, subj, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "finding grade by ID")
	}
	return true, nil
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	std, err := svc.store.CreateStudent(ctx, Student{
		Firstname:    ns.Firstname,
		Lastname:     ns.Lastname,
		EmailAddress: ns.EmailAddress,
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	svc.logger.Info(fmt.Sprintf("student %d created", std.ID))
	return std, nil
}

// DeleteStudent removes the Student and every grade referencing it, in one transaction.
// Deleting a missing Student is a no-op; callers check StudentExists to report it.
func (svc *Service) DeleteStudent(ctx context.Context, id int) error {
	var deleted bool
	err := svc.store.InTx(ctx, func(repo Repository) error {
		exists, err := studentExists(ctx, repo, id)
		if err != nil || !exists {
			return err
		}
		if err = repo.DeleteStudent(ctx, id); err != nil {
			return errors.Wrap(err, "deleting student")
		}
		for _, subj := range Subjects {
			if err = repo.DeleteGradesByStudent(ctx, subj, id); err != nil {
				return errors.Wrapf(err, "deleting %s grades", subj)
			}
		}
		deleted = true
		return nil
	})
	if err != nil {
		return err
	}
	if deleted {
		svc.logger.Info(fmt.Sprintf("student %d deleted", id))
	}
	return nil
}

// CreateGrade persists a grade once the student exists, the value lies in [MinGrade, MaxGrade]
// and gradeType names a Subject, checked in that order. It returns false when any check fails;
// the error is only set for store failures.
func (svc *Service) CreateGrade(ctx context.Context, value float64, studentID int, gradeType string) (bool, error) {
	exists, err := svc.StudentExists(ctx, studentID)
	if err != nil || !exists {
		return false, err
	}
	if !(value >= MinGrade && value <= MaxGrade) {
		return false, nil
	}
	subj, err := ParseSubject(gradeType)
	if err != nil {
		return false, nil
	}

	grade, err := svc.store.CreateGrade(ctx, Grade{StudentID: studentID, Grade: value, Subject: subj})
	if err != nil {
		return false, errors.Wrapf(err, "creating %s grade", subj)
	}
	svc.logger.Info(fmt.Sprintf("%s grade %d created for student %d", subj, grade.ID, studentID))
	return true, nil
}

// DeleteGrade deletes a grade from the partition named by gradeType and returns the id of the student it belonged to.
// ok is false when the grade does not exist or gradeType is unknown.
func (svc *Service) DeleteGrade(ctx context.Context, gradeID int, gradeType string) (studentID int, ok bool, err error) {
	subj, err := ParseSubject(gradeType)
	if err != nil {
		return 0, false, nil
	}

	err = svc.store.InTx(ctx, func(repo Repository) error {
		grade, err := repo.GetGrade(ctx, subj, gradeID)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return nil
			}
			return errors.Wrapf(err, "finding %s grade by ID", subj)
		}
		if err = repo.DeleteGrade(ctx, subj, gradeID); err != nil {
			return errors.Wrapf(err, "deleting %s grade", subj)
		}
		studentID, ok = grade.StudentID, true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	if ok {
		svc.logger.Info(fmt.Sprintf("%s grade %d deleted from student %d", subj, gradeID, studentID))
	}
	return studentID, ok, nil
}
