package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ReportID ID
	ModelID  ID
)

func (id ReportID) String() string { return ID(id).String() }
func (id ModelID) String() string  { return ID(id).String() }

func (id ReportID) IsEmpty() bool { return id == "" }
func (id ModelID) IsEmpty() bool  { return id == "" }

// NewReportID creates an identifier for a gate report
func NewReportID() ReportID { return ReportID(NewID()) }

// NewModelID creates an identifier for a fitted model artifact
func NewModelID() ModelID { return ModelID(NewID()) }

// ParseReportID parses a string into ReportID
func ParseReportID(s string) (ReportID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("report ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid report ID %q: %w", s, err)
	}
	return ReportID(s), nil
}
