package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/waveshare/waveshare-api/internal/models"
	"github.com/waveshare/waveshare-api/internal/repository"
	"github.com/waveshare/waveshare-api/internal/roster"
	"github.com/waveshare/waveshare-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrEmptyRoster      = errors.New("roster file has no usable rows")
	ErrNoRosterUploaded = errors.New("no roster has been uploaded for this organization")
	ErrInvalidCSVType   = errors.New("csv type must be students or teachers")
)

// CSVType names the two typed-mode roster uploads.
type CSVType string

const (
	CSVTypeStudents CSVType = "students"
	CSVTypeTeachers CSVType = "teachers"
)

// UploadStats summarizes a hierarchy-mode roster ingestion.
type UploadStats struct {
	TotalMembers    int `json:"total_members"`
	TotalStudents   int `json:"total_students"`
	TotalFaculty    int `json:"total_faculty"`
	DepartmentCount int `json:"department_count"`
}

// RosterService ingests roster files for fully verified organizations. The
// two ingestion modes are separate capabilities: hierarchy mode owns the
// nested tree, typed mode owns per-type flat counts, and neither touches the
// other's fields.
type RosterService struct {
	orgRepo repository.OrganizationRepository
	blobs   storage.BlobStore
	logger  zerolog.Logger
}

// NewRosterService creates a new RosterService.
func NewRosterService(orgRepo repository.OrganizationRepository, blobs storage.BlobStore, logger zerolog.Logger) *RosterService {
	return &RosterService{
		orgRepo: orgRepo,
		blobs:   blobs,
		logger:  logger,
	}
}

// UploadHierarchyCSV parses a single hierarchical roster, rebuilds the
// organization's tree from scratch and stores the artifact. The previous tree
// is discarded wholesale; there is no incremental merge.
func (s *RosterService) UploadHierarchyCSV(ctx context.Context, orgID, filename string, data []byte) (*models.Organization, UploadStats, error) {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return nil, UploadStats{}, err
	}
	if org.VerificationStatus != models.StatusFullyVerified {
		return nil, UploadStats{}, ErrNotFullyVerified
	}

	members, err := roster.ParseMembers(data)
	if err != nil {
		return nil, UploadStats{}, fmt.Errorf("failed to parse roster: %w", err)
	}
	if len(members) == 0 {
		return nil, UploadStats{}, ErrEmptyRoster
	}

	hierarchy := roster.Build(members)

	key, url, err := s.blobs.Put(ctx, "rosters/"+org.OrgID, filename, "text/csv", data)
	if err != nil {
		return nil, UploadStats{}, fmt.Errorf("failed to store roster: %w", err)
	}

	now := time.Now()
	org.MembersCSVURL = url
	org.MembersCSVKey = key
	org.CSVUploadedAt = &now
	org.HasCSVUploaded = true
	org.Hierarchy = hierarchy
	if err := s.orgRepo.Update(org); err != nil {
		return nil, UploadStats{}, fmt.Errorf("failed to update organization: %w", err)
	}

	s.logger.Info().
		Str("org_id", org.OrgID).
		Int("total_members", hierarchy.TotalMembers).
		Int("departments", len(hierarchy.Departments)).
		Msg("roster hierarchy rebuilt")

	return org, UploadStats{
		TotalMembers:    hierarchy.TotalMembers,
		TotalStudents:   hierarchy.TotalStudents,
		TotalFaculty:    hierarchy.TotalFaculty,
		DepartmentCount: len(hierarchy.Departments),
	}, nil
}

// UploadTypedCSV stores a students or teachers roster with a flat row count
// and no tree.
func (s *RosterService) UploadTypedCSV(ctx context.Context, orgID string, csvType CSVType, filename string, data []byte) (*models.Organization, int, error) {
	if csvType != CSVTypeStudents && csvType != CSVTypeTeachers {
		return nil, 0, ErrInvalidCSVType
	}

	org, err := s.findByOrgID(orgID)
	if err != nil {
		return nil, 0, err
	}
	if org.VerificationStatus != models.StatusFullyVerified {
		return nil, 0, ErrNotFullyVerified
	}

	count := roster.CountRecords(data)
	if count == 0 {
		return nil, 0, ErrEmptyRoster
	}

	key, url, err := s.blobs.Put(ctx, fmt.Sprintf("rosters/%s/%s", org.OrgID, csvType), filename, "text/csv", data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to store roster: %w", err)
	}

	switch csvType {
	case CSVTypeStudents:
		org.StudentsCSVURL = url
		org.StudentsCSVKey = key
		org.StudentsCount = count
	case CSVTypeTeachers:
		org.TeachersCSVURL = url
		org.TeachersCSVKey = key
		org.TeachersCount = count
	}
	if err := s.orgRepo.Update(org); err != nil {
		return nil, 0, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, count, nil
}

// GetMembers reconstructs the member list from the stored hierarchy-mode
// roster artifact.
func (s *RosterService) GetMembers(ctx context.Context, orgID string) ([]roster.Member, error) {
	org, err := s.findByOrgID(orgID)
	if err != nil {
		return nil, err
	}
	if !org.HasCSVUploaded || org.MembersCSVKey == "" {
		return nil, ErrNoRosterUploaded
	}

	data, err := s.blobs.Get(ctx, org.MembersCSVKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster artifact: %w", err)
	}

	members, err := roster.ParseMembers(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster artifact: %w", err)
	}
	return members, nil
}

func (s *RosterService) findByOrgID(orgID string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByOrgID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}
