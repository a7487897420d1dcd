package domain

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserInactive           = errors.New("user is inactive")
	ErrDuplicateEmail         = errors.New("email already exists")
	ErrInsufficientRole       = errors.New("insufficient role for this action")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrFileTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed           = errors.New("file upload to storage failed")
	ErrInvalidCategory        = errors.New("invalid document category")
	ErrApplicationNotFound    = errors.New("application not found")
	ErrApplicationNotStarted  = errors.New("application has not been created yet")
	ErrInvalidTransition      = errors.New("application status does not allow this action")
	ErrStepValidation         = errors.New("step validation failed")
	ErrInvalidStep            = errors.New("invalid wizard step")
	ErrLikelihoodUnavailable  = errors.New("likelihood check requires exactly one abstract document")
	ErrScoringFailed          = errors.New("likelihood scoring failed")
	ErrApplicationNoPending   = errors.New("application number not yet available")
	ErrInvalidReferenceKind   = errors.New("invalid reference kind")
	ErrPaymentAmountMismatch  = errors.New("payment amount does not match application fee")
	ErrFailedUploadNotFound   = errors.New("no failed upload matches the correlation id")
	ErrApplicationNotApproved = errors.New("application is not an approved patent")
	ErrInvalidStatus          = errors.New("invalid application status")
)
