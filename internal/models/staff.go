package models

import "time"

// Staff represents a service-provider on the team. Session logs reference
// staff by display name, not by id, so renames must be propagated into the
// logs collection.
type Staff struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StaffColors is the palette cycled through when new staff are added.
var StaffColors = []string{"#6366f1", "#f59e0b", "#10b981", "#ef4444", "#ec4899"}

// DefaultStaff seeds the roster on first start when the table is empty.
var DefaultStaff = []Staff{
	{Name: "Ms. Rivera", Color: "#6366f1"},
	{Name: "Mr. Thompson", Color: "#f59e0b"},
	{Name: "Ms. Chen", Color: "#10b981"},
	{Name: "Mr. Davis", Color: "#ef4444"},
	{Name: "Ms. Patel", Color: "#ec4899"},
}
