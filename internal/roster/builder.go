package roster

import (
	"github.com/waveshare/waveshare-api/internal/models"
)

// Build converts parsed roster rows into the nested hierarchy tree in a
// single left-to-right pass. Sibling order at every level is the order of
// first appearance in the input. Students roll up through
// branch/year/semester/section; faculty and staff stop at department level.
func Build(members []Member) *models.Hierarchy {
	h := &models.Hierarchy{Departments: []models.Department{}}

	for _, m := range members {
		h.TotalMembers++
		switch m.Role {
		case RoleStudent:
			h.TotalStudents++
		case RoleFaculty:
			h.TotalFaculty++
		default:
			h.TotalStaff++
		}

		dept := upsertDepartment(&h.Departments, m.Department)
		dept.TotalMembers++

		if m.Role != RoleStudent || m.Branch == "" {
			continue
		}
		branch := upsertBranch(&dept.Branches, m.Branch)
		branch.TotalMembers++

		if m.Year == nil {
			continue
		}
		year := upsertYear(&branch.Years, *m.Year)

		if m.Semester == nil {
			continue
		}
		semester := upsertSemester(&year.Semesters, *m.Semester)

		if m.Section == "" {
			continue
		}
		section := upsertSection(&semester.Sections, m.Section)
		section.TotalMembers++
	}

	return h
}

func upsertDepartment(departments *[]models.Department, name string) *models.Department {
	for i := range *departments {
		if (*departments)[i].Name == name {
			return &(*departments)[i]
		}
	}
	*departments = append(*departments, models.Department{Name: name})
	return &(*departments)[len(*departments)-1]
}

func upsertBranch(branches *[]models.Branch, name string) *models.Branch {
	for i := range *branches {
		if (*branches)[i].Name == name {
			return &(*branches)[i]
		}
	}
	*branches = append(*branches, models.Branch{Name: name})
	return &(*branches)[len(*branches)-1]
}

func upsertYear(years *[]models.Year, year int) *models.Year {
	for i := range *years {
		if (*years)[i].Year == year {
			return &(*years)[i]
		}
	}
	*years = append(*years, models.Year{Year: year})
	return &(*years)[len(*years)-1]
}

func upsertSemester(semesters *[]models.Semester, semester int) *models.Semester {
	for i := range *semesters {
		if (*semesters)[i].Semester == semester {
			return &(*semesters)[i]
		}
	}
	*semesters = append(*semesters, models.Semester{Semester: semester})
	return &(*semesters)[len(*semesters)-1]
}

func upsertSection(sections *[]models.Section, section string) *models.Section {
	for i := range *sections {
		if (*sections)[i].Section == section {
			return &(*sections)[i]
		}
	}
	*sections = append(*sections, models.Section{Section: section})
	return &(*sections)[len(*sections)-1]
}
