// Package inmemdb is a non-durable record.Repository for tests and demos.
package inmemdb

import (
	"sync"

	"github.com/trezcool/gradebook/core/record"
)

type (
	DB struct {
		sync.RWMutex
		students map[int]*record.Student
		subjects map[int]*record.Subject
		marks    map[int]*record.Mark

		// primary key counters
		studentPK, subjectPK, markPK int
	}
)

func Open() *DB {
	db := &DB{}
	db.init()
	return db
}

func (db *DB) init() {
	db.students = make(map[int]*record.Student)
	db.subjects = make(map[int]*record.Subject)
	db.marks = make(map[int]*record.Mark)
	db.studentPK, db.subjectPK, db.markPK = 0, 0, 0
}
