package models

// Hierarchy is the nested aggregate tree derived from a roster upload. It is
// rebuilt wholesale on every upload and stored as a JSON column on the
// organization row; the root counters are the single source of truth for
// member totals in hierarchy mode.
type Hierarchy struct {
	TotalMembers  int          `json:"total_members"`
	TotalStudents int          `json:"total_students"`
	TotalFaculty  int          `json:"total_faculty"`
	TotalStaff    int          `json:"total_staff"`
	Departments   []Department `json:"departments"`
}

type Department struct {
	Name         string   `json:"name"`
	TotalMembers int      `json:"total_members"`
	Branches     []Branch `json:"branches,omitempty"`
}

type Branch struct {
	Name         string `json:"name"`
	TotalMembers int    `json:"total_members"`
	Years        []Year `json:"years,omitempty"`
}

type Year struct {
	Year      int        `json:"year"`
	Semesters []Semester `json:"semesters,omitempty"`
}

type Semester struct {
	Semester int       `json:"semester"`
	Sections []Section `json:"sections,omitempty"`
}

type Section struct {
	Section      string `json:"section"`
	TotalMembers int    `json:"total_members"`
}
