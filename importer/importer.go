// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/store"
)

// Roster is the JSON import document.
type Roster struct {
	Departments map[string]RosterDepartment `json:"departments" validate:"dive"`
	Voters      []RosterVoter               `json:"voters" validate:"dive"`
}

type RosterDepartment struct {
	Name    string            `json:"name" validate:"required"`
	Courses map[string]string `json:"courses"`
}

// RosterVoter is one voter of a JSON roster. Votes maps a position name to
// the code of the voter running as candidate.
type RosterVoter struct {
	Code       string            `json:"code" validate:"required"`
	FirstName  string            `json:"first_name" validate:"required"`
	MiddleName string            `json:"middle_name"`
	LastName   string            `json:"last_name" validate:"required"`
	Sex        string            `json:"sex"`
	Department string            `json:"department" validate:"required"`
	Course     string            `json:"course" validate:"required"`
	YearLevel  int               `json:"year_level" validate:"min=1,max=5"`
	Votes      map[string]string `json:"votes"`
}

// CSV roster columns
var csvColumns = []string{"Code", "First Name", "Middle Name", "Last Name", "Sex", "Course", "Year"}

// Importer seeds the roster and historical votes.
type Importer struct {
	store    *store.Store
	validate *validator.Validate
}

func New(s *store.Store) *Importer {
	return &Importer{store: s, validate: validator.New()}
}

// ImportJSON loads departments, courses, voters, and votes from a roster
// document in one transaction. Departments, courses, and voters that already
// exist (by code) are reused. Votes are resolved against electionID, or the
// active election when electionID is zero, and are skipped when the voter
// already holds that vote or has no selection left in the position.
func (im *Importer) ImportJSON(ctx context.Context, r io.Reader, electionID int64) (models.ImportSummary, error) {
	var roster Roster
	if err := json.NewDecoder(r).Decode(&roster); err != nil {
		return models.ImportSummary{}, fmt.Errorf("%w: invalid roster JSON: %v", models.ErrConstraintViolation, err)
	}
	if err := im.validate.Struct(roster); err != nil {
		return models.ImportSummary{}, fmt.Errorf("%w: invalid roster: %v", models.ErrConstraintViolation, err)
	}

	var summary models.ImportSummary
	now := time.Now().UTC()

	err := im.store.WithTx(ctx, func(q *store.Queries) error {
		departments, courses, err := importDepartments(ctx, q, roster.Departments, &summary)
		if err != nil {
			return err
		}

		votes := &voteResolver{q: q, electionID: electionID, positions: map[string]models.Position{}}

		for _, rv := range roster.Voters {
			deptID, ok := departments[rv.Department]
			if !ok {
				summary.Skipped++
				continue
			}
			courseID, ok := courses[rv.Course]
			if !ok {
				c, err := q.CourseByCode(ctx, rv.Course)
				if errors.Is(err, models.ErrNotFound) {
					summary.Skipped++
					continue
				}
				if err != nil {
					return err
				}
				courseID = c.ID
			}

			voterID, err := getOrCreateVoter(ctx, q, models.Voter{
				Code:         rv.Code,
				FirstName:    strings.TrimSpace(rv.FirstName),
				MiddleName:   strings.TrimSpace(rv.MiddleName),
				LastName:     strings.TrimSpace(rv.LastName),
				Sex:          normalizeSex(rv.Sex),
				DepartmentID: deptID,
				CourseID:     courseID,
				YearLevel:    rv.YearLevel,
			}, &summary)
			if errors.Is(err, models.ErrCourseOutsideDepartment) {
				summary.Skipped++
				continue
			}
			if err != nil {
				return err
			}

			names := make([]string, 0, len(rv.Votes))
			for name := range rv.Votes {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				created, err := votes.add(ctx, voterID, name, rv.Votes[name], now)
				if err != nil {
					return err
				}
				if created {
					summary.VotesCreated++
				} else {
					summary.Skipped++
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.ImportSummary{}, err
	}

	slog.Info("roster imported",
		"format", "json",
		"voters_created", summary.VotersCreated,
		"votes_created", summary.VotesCreated,
		"skipped", summary.Skipped)
	return summary, nil
}

// ImportCSV upserts voters from a CSV roster whose header names the columns
// Code, First Name, Middle Name, Last Name, Sex, Course, Year. Rows with an
// unknown course code or an unreadable year are skipped.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (models.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("%w: missing CSV header: %v", models.ErrConstraintViolation, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range csvColumns {
		if _, ok := cols[name]; !ok {
			return models.ImportSummary{}, fmt.Errorf("%w: CSV column %q missing", models.ErrConstraintViolation, name)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return models.ImportSummary{}, fmt.Errorf("%w: invalid CSV: %v", models.ErrConstraintViolation, err)
	}

	var summary models.ImportSummary
	err = im.store.WithTx(ctx, func(q *store.Queries) error {
		for _, rec := range records {
			field := func(name string) string {
				i := cols[name]
				if i >= len(rec) {
					return ""
				}
				return strings.TrimSpace(rec[i])
			}

			code := field("Code")
			year, err := strconv.Atoi(field("Year"))
			if code == "" || err != nil || year < 1 || year > 5 {
				summary.Skipped++
				continue
			}

			course, err := findCourse(ctx, q, field("Course"))
			if errors.Is(err, models.ErrNotFound) {
				summary.Skipped++
				continue
			}
			if err != nil {
				return err
			}

			_, created, err := q.UpsertVoter(ctx, models.Voter{
				Code:         code,
				FirstName:    field("First Name"),
				MiddleName:   field("Middle Name"),
				LastName:     field("Last Name"),
				Sex:          normalizeSex(field("Sex")),
				DepartmentID: course.DepartmentID,
				CourseID:     course.ID,
				YearLevel:    year,
			})
			if err != nil {
				return err
			}
			if created {
				summary.VotersCreated++
			} else {
				summary.VotersUpdated++
			}
		}
		return nil
	})
	if err != nil {
		return models.ImportSummary{}, err
	}

	slog.Info("roster imported",
		"format", "csv",
		"voters_created", summary.VotersCreated,
		"voters_updated", summary.VotersUpdated,
		"skipped", summary.Skipped)
	return summary, nil
}

func importDepartments(ctx context.Context, q *store.Queries, in map[string]RosterDepartment, summary *models.ImportSummary) (map[string]int64, map[string]int64, error) {
	departments := make(map[string]int64, len(in))
	courses := make(map[string]int64)

	codes := make([]string, 0, len(in))
	for code := range in {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		info := in[code]
		deptID, created, err := q.EnsureDepartment(ctx, code, info.Name)
		if err != nil {
			return nil, nil, err
		}
		if created {
			summary.DepartmentsCreated++
		}
		departments[code] = deptID

		courseCodes := make([]string, 0, len(info.Courses))
		for cc := range info.Courses {
			courseCodes = append(courseCodes, cc)
		}
		sort.Strings(courseCodes)

		for _, cc := range courseCodes {
			courseID, created, err := q.EnsureCourse(ctx, deptID, cc, info.Courses[cc])
			if err != nil {
				return nil, nil, err
			}
			if created {
				summary.CoursesCreated++
			}
			courses[cc] = courseID
		}
	}
	return departments, courses, nil
}

// getOrCreateVoter returns the id of the voter with v.Code, registering v if
// the code is new. Existing voters are left untouched.
func getOrCreateVoter(ctx context.Context, q *store.Queries, v models.Voter, summary *models.ImportSummary) (int64, error) {
	existing, err := q.VoterByCode(ctx, v.Code)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return 0, err
	}

	id, err := q.CreateVoter(ctx, v)
	if err != nil {
		return 0, err
	}
	summary.VotersCreated++
	return id, nil
}

// findCourse matches a roster's course column against course codes first and
// then against course names.
func findCourse(ctx context.Context, q *store.Queries, course string) (models.Course, error) {
	if course == "" {
		return models.Course{}, fmt.Errorf("%w: empty course", models.ErrNotFound)
	}
	c, err := q.CourseByCode(ctx, course)
	if !errors.Is(err, models.ErrNotFound) {
		return c, err
	}
	return q.CourseByNameLike(ctx, course)
}

// voteResolver maps (position name, candidate voter code) pairs of one
// election to candidates and writes the votes.
type voteResolver struct {
	q          *store.Queries
	electionID int64
	positions  map[string]models.Position
}

func (vr *voteResolver) add(ctx context.Context, voterID int64, positionName, candidateCode string, at time.Time) (bool, error) {
	if vr.electionID == 0 {
		active, err := vr.q.ActiveElection(ctx)
		if err != nil {
			return false, err
		}
		vr.electionID = active.ID
	}

	pos, ok := vr.positions[positionName]
	if !ok {
		p, err := vr.q.PositionByName(ctx, vr.electionID, positionName)
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		vr.positions[positionName] = p
		pos = p
	}

	cand, err := vr.q.CandidateByVoterCode(ctx, pos.ID, candidateCode)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	dup, err := vr.q.HasVoteForCandidate(ctx, voterID, cand.ID)
	if err != nil || dup {
		return false, err
	}
	used, err := vr.q.VotesInPosition(ctx, voterID, pos.ID)
	if err != nil || used >= pos.MaxWinners {
		return false, err
	}

	if _, err := vr.q.InsertVote(ctx, voterID, cand.ID, cand.PositionID, cand.ElectionID, at); err != nil {
		return false, err
	}
	if err := vr.q.SetHasVoted(ctx, voterID, true); err != nil {
		return false, err
	}
	return true, nil
}

// normalizeSex accepts M/F and Male/Female in any case.
func normalizeSex(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if strings.HasPrefix(s, "M") {
		return "M"
	}
	return "F"
}
