package models

import "time"

// SessionLog is one append-only record of service minutes delivered to a
// student. Staff is referenced by display name; renames are rewritten in
// bulk by the staff repository.
type SessionLog struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	Subject   Subject   `db:"subject" json:"subject"`
	StaffName string    `db:"staff_name" json:"staff_name"`
	Minutes   int       `db:"minutes" json:"minutes"`
	Date      time.Time `db:"date" json:"date"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionLogFilter restricts listings to specific students, subjects, staff
// or date bounds. Zero values mean "no restriction".
type SessionLogFilter struct {
	StudentID int64
	Subject   Subject
	StaffName string
	Start     time.Time
	End       time.Time
	Limit     int
}
