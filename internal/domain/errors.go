package domain

import "errors"

// Domain errors (для бизнес-логики)
var (
	// Validation errors
	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidProject   = errors.New("invalid project name")
	ErrInvalidChangeID  = errors.New("invalid change id")
	ErrInvalidRevision  = errors.New("invalid revision")
	ErrInvalidAccountID = errors.New("invalid account id")

	// Not found errors
	ErrChangeNotFound   = errors.New("change not found")
	ErrPatchSetNotFound = errors.New("patch set not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrCommitNotFound   = errors.New("commit not found")

	// Repository / config errors
	ErrRepositoryAccess = errors.New("cannot open project repository")
	ErrConfigResolution = errors.New("cannot resolve project configuration")

	// Persistence / indexing errors
	ErrPersistence = errors.New("approval store write failed")
	ErrIndexing    = errors.New("change index refresh failed")

	// Submit gate errors
	ErrSubmitBlocked = errors.New("submit blocked due to missing module owner")
)

// HTTPError для HTTP-ответов об ошибках
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrInvalidEventType: {Code: "INVALID_EVENT", Message: "unknown event type"},
	ErrInvalidProject:   {Code: "INVALID_PROJECT", Message: "project name is required"},
	ErrInvalidChangeID:  {Code: "INVALID_CHANGE", Message: "change id is required"},
	ErrInvalidRevision:  {Code: "INVALID_REVISION", Message: "revision is required"},
	ErrInvalidAccountID: {Code: "INVALID_ACCOUNT", Message: "account id is required"},
	ErrChangeNotFound:   {Code: "NOT_FOUND", Message: "change not found"},
	ErrPatchSetNotFound: {Code: "NOT_FOUND", Message: "patch set not found"},
	ErrAccountNotFound:  {Code: "NOT_FOUND", Message: "account not found"},
	ErrCommitNotFound:   {Code: "NOT_FOUND", Message: "commit not found"},
	ErrRepositoryAccess: {Code: "REPO_ACCESS", Message: "cannot open project repository"},
	ErrSubmitBlocked:    {Code: "SUBMIT_BLOCKED", Message: "submit blocked due to missing module owner"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку. Ошибки на
// границах репозиториев оборачиваются через %w, поэтому сопоставление
// идет по errors.Is, а не по равенству.
func ToHTTPError(err error) (HTTPError, bool) {
	if httpErr, exists := ErrorMapping[err]; exists {
		return httpErr, true
	}
	for sentinel, httpErr := range ErrorMapping {
		if errors.Is(err, sentinel) {
			return httpErr, true
		}
	}
	return HTTPError{}, false
}
