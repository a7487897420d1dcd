package domain

// UserRole defines what a signed-in user may do.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleApplicant UserRole = "applicant"
)

// ValidUserRoles is the set of assignable roles.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:     true,
	RoleApplicant: true,
}

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// DocumentCategory groups uploaded files by the slot they fill in an application.
type DocumentCategory string

const (
	CategoryClaims     DocumentCategory = "claims"
	CategoryAbstract   DocumentCategory = "abstract"
	CategoryDrawings   DocumentCategory = "drawings"
	CategorySupporting DocumentCategory = "supporting"
)

// DocumentCategories lists categories in display order.
var DocumentCategories = []DocumentCategory{
	CategoryClaims,
	CategoryAbstract,
	CategoryDrawings,
	CategorySupporting,
}

// IsValid reports whether c is a known document category.
func (c DocumentCategory) IsValid() bool {
	for _, known := range DocumentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ApplicationStatus is the review lifecycle of a patent application.
type ApplicationStatus string

const (
	StatusDraft             ApplicationStatus = "draft"
	StatusSubmitted         ApplicationStatus = "submitted"
	StatusFeedbackRequested ApplicationStatus = "feedback_requested"
	StatusApproved          ApplicationStatus = "approved"
	StatusRejected          ApplicationStatus = "rejected"
	StatusCancelled         ApplicationStatus = "cancelled"
)

var validStatuses = map[ApplicationStatus]bool{
	StatusDraft:             true,
	StatusSubmitted:         true,
	StatusFeedbackRequested: true,
	StatusApproved:          true,
	StatusRejected:          true,
	StatusCancelled:         true,
}

var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:             {StatusSubmitted, StatusCancelled},
	StatusSubmitted:         {StatusApproved, StatusRejected, StatusFeedbackRequested, StatusCancelled},
	StatusFeedbackRequested: {StatusApproved, StatusRejected, StatusCancelled},
}

// IsValid returns true if s is a known status.
func (s ApplicationStatus) IsValid() bool {
	return validStatuses[s]
}

// IsTerminal returns true if no further transitions are allowed from s.
func (s ApplicationStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReferenceKind names a reference data list.
type ReferenceKind string

const (
	RefCountry              ReferenceKind = "country"
	RefGender               ReferenceKind = "gender"
	RefApplicationType      ReferenceKind = "application_type"
	RefPatentClassification ReferenceKind = "patent_classification"
	RefState                ReferenceKind = "state"
	RefFeedbackCategory     ReferenceKind = "feedback_category"
	RefRejectionCategory    ReferenceKind = "rejection_category"
)

// ValidReferenceKinds is the set of kinds exposed through the API.
var ValidReferenceKinds = map[ReferenceKind]bool{
	RefCountry:              true,
	RefGender:               true,
	RefApplicationType:      true,
	RefPatentClassification: true,
	RefState:                true,
	RefFeedbackCategory:     true,
	RefRejectionCategory:    true,
}
