package inmemdb

import (
	"sync"

	"github.com/trezcool/gradebook/core/gradebook"
)

type (
	// DB is an in-memory Grade Store, handy for tests and local runs.
	DB struct {
		sync.RWMutex
		tables *tables
	}

	tables struct {
		student *studentTable
		grades  map[gradebook.Subject]*gradeTable
	}

	studentTable struct {
		pkCount int
		rows    []gradebook.Student // insertion order
	}

	gradeTable struct {
		pkCount int
		rows    []gradebook.Grade // insertion order
	}
)

func Open() (*DB, error) {
	return &DB{tables: newTables()}, nil
}

func newTables() *tables {
	t := &tables{
		student: &studentTable{},
		grades:  make(map[gradebook.Subject]*gradeTable, len(gradebook.Subjects)),
	}
	for _, subj := range gradebook.Subjects {
		t.grades[subj] = &gradeTable{}
	}
	return t
}

// Reset empties every table and restarts the id sequences.
func (db *DB) Reset() {
	db.Lock()
	defer db.Unlock()
	db.tables = newTables()
}

func (t *tables) clone() *tables {
	c := &tables{
		student: &studentTable{
			pkCount: t.student.pkCount,
			rows:    append([]gradebook.Student(nil), t.student.rows...),
		},
		grades: make(map[gradebook.Subject]*gradeTable, len(t.grades)),
	}
	for subj, gt := range t.grades {
		c.grades[subj] = &gradeTable{
			pkCount: gt.pkCount,
			rows:    append([]gradebook.Grade(nil), gt.rows...),
		}
	}
	return c
}
