package inmemdb

import (
	"context"

	"github.com/trezcool/gradebook/core/gradebook"
)

type store struct {
	db *DB
}

var _ gradebook.Store = (*store)(nil) // interface compliance check

func NewStore(db *DB) gradebook.Store {
	return &store{db: db}
}

func (s *store) read() *repository {
	return &repository{t: s.db.tables}
}

// InTx runs fn on a copy of the tables, which replaces them only if fn succeeds.
// Other callers are blocked until it returns.
func (s *store) InTx(ctx context.Context, fn func(repo gradebook.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db.Lock()
	defer s.db.Unlock()

	work := s.db.tables.clone()
	if err := fn(&repository{t: work}); err != nil {
		return err
	}
	s.db.tables = work
	return nil
}

func (s *store) QueryStudents(ctx context.Context) ([]gradebook.Student, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	return s.read().QueryStudents(ctx)
}

func (s *store) GetStudent(ctx context.Context, id int) (gradebook.Student, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	return s.read().GetStudent(ctx, id)
}

func (s *store) CreateStudent(ctx context.Context, std gradebook.Student) (gradebook.Student, error) {
	s.db.Lock()
	defer s.db.Unlock()
	return s.read().CreateStudent(ctx, std)
}

func (s *store) DeleteStudent(ctx context.Context, id int) error {
	s.db.Lock()
	defer s.db.Unlock()
	return s.read().DeleteStudent(ctx, id)
}

func (s *store) QueryGrades(ctx context.Context, subj gradebook.Subject) ([]gradebook.Grade, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	return s.read().QueryGrades(ctx, subj)
}

func (s *store) GetGrade(ctx context.Context, subj gradebook.Subject, id int) (gradebook.Grade, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	return s.read().GetGrade(ctx, subj, id)
}

func (s *store) QueryGradesByStudent(ctx context.Context, subj gradebook.Subject, studentID int) ([]gradebook.Grade, error) {
	s.db.RLock()
	defer s.db.RUnlock()
	return s.read().QueryGradesByStudent(ctx, subj, studentID)
}

func (s *store) CreateGrade(ctx context.Context, grade gradebook.Grade) (gradebook.Grade, error) {
	s.db.Lock()
	defer s.db.Unlock()
	return s.read().CreateGrade(ctx, grade)
}

func (s *store) DeleteGrade(ctx context.Context, subj gradebook.Subject, id int) error {
	s.db.Lock()
	defer s.db.Unlock()
	return s.read().DeleteGrade(ctx, subj, id)
}

func (s *store) DeleteGradesByStudent(ctx context.Context, subj gradebook.Subject, studentID int) error {
	s.db.Lock()
	defer s.db.Unlock()
	return s.read().DeleteGradesByStudent(ctx, subj, studentID)
}
