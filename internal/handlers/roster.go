package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/waveshare/waveshare-api/internal/errors"
	"github.com/waveshare/waveshare-api/internal/services"
	"github.com/waveshare/waveshare-api/internal/utils"
)

// RosterHandler coordinates the roster ingestion HTTP handlers.
type RosterHandler struct {
	rosterService *services.RosterService
}

// NewRosterHandler creates a new RosterHandler.
func NewRosterHandler(rosterService *services.RosterService) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
	}
}

// UploadCSV ingests a single hierarchical roster and rebuilds the tree.
func (h *RosterHandler) UploadCSV(c *gin.Context) {
	orgID := c.PostForm("org_id")
	if orgID == "" {
		apierrors.BadRequest(c, "org_id is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "Roster file is required")
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		apierrors.InternalError(c, "Failed to read uploaded file")
		return
	}

	org, stats, err := h.rosterService.UploadHierarchyCSV(c.Request.Context(), orgID, fileHeader.Filename, data)
	if err != nil {
		respondRosterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"org_code": org.OrgCode,
		"csv_url":  org.MembersCSVURL,
		"stats":    stats,
	})
}

// UploadTypedCSV ingests a students or teachers roster as a flat artifact.
func (h *RosterHandler) UploadTypedCSV(c *gin.Context) {
	orgID := c.PostForm("org_id")
	csvType := c.PostForm("csv_type")
	if orgID == "" || csvType == "" {
		apierrors.BadRequest(c, "org_id and csv_type are required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "Roster file is required")
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		apierrors.InternalError(c, "Failed to read uploaded file")
		return
	}

	org, count, err := h.rosterService.UploadTypedCSV(c.Request.Context(), orgID, services.CSVType(csvType), fileHeader.Filename, data)
	if err != nil {
		respondRosterError(c, err)
		return
	}

	csvURL := org.StudentsCSVURL
	if services.CSVType(csvType) == services.CSVTypeTeachers {
		csvURL = org.TeachersCSVURL
	}

	c.JSON(http.StatusOK, gin.H{
		"member_count":   count,
		"csv_url":        csvURL,
		"total_students": org.StudentsCount,
		"total_teachers": org.TeachersCount,
	})
}

// GetMembersCSV returns the member list reconstructed from the stored roster.
func (h *RosterHandler) GetMembersCSV(c *gin.Context) {
	members, err := h.rosterService.GetMembers(c.Request.Context(), c.Param("orgId"))
	if err != nil {
		respondRosterError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	total := int64(len(members))
	start := params.Offset
	if start > len(members) {
		start = len(members)
	}
	end := start + params.Limit
	if end > len(members) {
		end = len(members)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members[start:end],
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func respondRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotFullyVerified):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrEmptyRoster),
		errors.Is(err, services.ErrInvalidCSVType):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNoRosterUploaded):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
