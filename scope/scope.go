// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scope

import "fmt"

// Level is the scoping rule of a position.
type Level string

// Position levels
const (
	University            Level = "university"
	Department            Level = "department"
	Course                Level = "course"
	YearLevel             Level = "year_level"
	DepartmentCourseLevel Level = "department_course_level"
	DepartmentYearLevel   Level = "department_year_level"
)

// Levels lists every level in display order.
var Levels = []Level{
	University,
	Department,
	Course,
	YearLevel,
	DepartmentCourseLevel,
	DepartmentYearLevel,
}

// PercentBase selects the denominator used for a candidate's percentage.
type PercentBase int

const (
	// BaseTurnout divides by everyone who participated in the election.
	BaseTurnout PercentBase = iota
	// BaseGroup divides by the registered voters of the candidate's group.
	BaseGroup
)

// VoterAttrs is where a voter sits in the organization.
type VoterAttrs struct {
	DepartmentID int64
	CourseID     int64
	YearLevel    int
}

// CandidateAttrs is where a candidate competes. DepartmentID and CourseID are
// already resolved (explicit candidate value, else the candidate's voter).
type CandidateAttrs struct {
	DepartmentID int64
	CourseID     int64
	YearLevel    int
}

// GroupKey identifies one result group of a position. Fields a level does not
// group by are zero.
type GroupKey struct {
	DepartmentID int64 `json:"department_id,omitempty"`
	CourseID     int64 `json:"course_id,omitempty"`
	YearLevel    int   `json:"year_level,omitempty"`
}

// Parse validates s as a level.
func Parse(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown position level %q", s)
	}
	return l, nil
}

func (l Level) Valid() bool {
	switch l {
	case University, Department, Course, YearLevel, DepartmentCourseLevel, DepartmentYearLevel:
		return true
	}
	return false
}

// GroupOf returns the result group a candidate of this level competes in.
func (l Level) GroupOf(c CandidateAttrs) GroupKey {
	switch l {
	case University:
		return GroupKey{}
	case Department:
		return GroupKey{DepartmentID: c.DepartmentID}
	case Course:
		return GroupKey{CourseID: c.CourseID}
	case YearLevel:
		return GroupKey{YearLevel: c.YearLevel}
	case DepartmentCourseLevel:
		return GroupKey{DepartmentID: c.DepartmentID, CourseID: c.CourseID, YearLevel: c.YearLevel}
	case DepartmentYearLevel:
		return GroupKey{DepartmentID: c.DepartmentID, YearLevel: c.YearLevel}
	}
	panic(fmt.Sprintf("scope: unhandled level %q", l))
}

// Members reports whether a voter belongs to the population of a group. The
// population is both who may vote in the group and the turnout denominator.
func (l Level) Members(v VoterAttrs, key GroupKey) bool {
	switch l {
	case University:
		return true
	case Department:
		return v.DepartmentID == key.DepartmentID
	case Course:
		return v.CourseID == key.CourseID
	case YearLevel:
		return v.YearLevel == key.YearLevel
	case DepartmentCourseLevel:
		return v.DepartmentID == key.DepartmentID && v.CourseID == key.CourseID && v.YearLevel == key.YearLevel
	case DepartmentYearLevel:
		return v.DepartmentID == key.DepartmentID && v.YearLevel == key.YearLevel
	}
	panic(fmt.Sprintf("scope: unhandled level %q", l))
}

// Eligible reports whether the voter may see and select the candidate.
func (l Level) Eligible(v VoterAttrs, c CandidateAttrs) bool {
	return l.Members(v, l.GroupOf(c))
}

func (l Level) PercentBase() PercentBase {
	switch l {
	case University, Course, YearLevel:
		return BaseTurnout
	case Department, DepartmentCourseLevel, DepartmentYearLevel:
		return BaseGroup
	}
	panic(fmt.Sprintf("scope: unhandled level %q", l))
}

// DepartmentScoped reports whether results of this level are split by department.
func (l Level) DepartmentScoped() bool {
	return l == Department || l == DepartmentCourseLevel || l == DepartmentYearLevel
}
