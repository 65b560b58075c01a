package api

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeNotFound       = "E_NOT_FOUND"       // route or resource does not exist
	CodeNotAllowed     = "E_METHOD_NOT_ALLOWED"

	// Talent errors
	CodeTalentNotFound       = "E_TALENT_NOT_FOUND"       // the specified talent could not be found.
	CodeTalentInvalid        = "E_TALENT_INVALID"         // required talent fields are missing or malformed.
	CodeTalentDuplicateEmail = "E_TALENT_DUPLICATE_EMAIL" // another talent already uses the email.
	CodeTalentSaveFailed     = "E_TALENT_SAVE_FAILED"     // a failure while storing a talent.

	// Upload errors
	CodeUploadRejected = "E_UPLOAD_REJECTED" // the file type or size is not accepted.
	CodeUploadFailed   = "E_UPLOAD_FAILED"   // a failure while storing an uploaded file.

	// Workflow errors
	CodeWorkflowNotFound   = "E_WORKFLOW_NOT_FOUND"   // the specified workflow could not be found.
	CodeWorkflowListFailed = "E_WORKFLOW_LIST_FAILED" // a failure while listing workflows.
	CodeSyncInProgress     = "E_SYNC_IN_PROGRESS"     // another sync run holds the lock.
	CodeSyncFailed         = "E_SYNC_FAILED"          // the remote tree could not be fetched.
)
