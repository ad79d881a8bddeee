package entity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Category classifies why a crew run failed at the model backend.
// Categories are checked in declaration order; the first match wins.
type Category int32

const (
	// CategoryUnknown is the zero value for errors no category matches.
	CategoryUnknown Category = iota
	CategoryTimeout
	CategoryConnection
	CategoryAuthentication
	CategoryBadRequest
	CategoryConflict
	CategoryInternalServer
	CategoryNotFound
	CategoryPermissionDenied
	CategoryRateLimit
	CategoryUnprocessableEntity
	CategoryAPIError
)

const (
	MessageRunFailed   = "There was an error running the crew! Check the log for details"
	MessageBuildFailed = "There was an error building the crew! Check the log for details"
	MessageToolFailed  = "There was an error loading tool! Check the log for details"
)

var categoryNames = map[Category]string{
	CategoryUnknown:             "unknown",
	CategoryTimeout:             "timeout",
	CategoryConnection:          "connection",
	CategoryAuthentication:      "authentication",
	CategoryBadRequest:          "bad_request",
	CategoryConflict:            "conflict",
	CategoryInternalServer:      "internal_server",
	CategoryNotFound:            "not_found",
	CategoryPermissionDenied:    "permission_denied",
	CategoryRateLimit:           "rate_limit",
	CategoryUnprocessableEntity: "unprocessable_entity",
	CategoryAPIError:            "api_error",
}

var categoryMessages = map[Category]string{
	CategoryTimeout:             "Request time out error! Check the log for details",
	CategoryConnection:          "Connection error! Check the log for details",
	CategoryAuthentication:      "Authentication error! Check the log for details",
	CategoryBadRequest:          "Bad request error! Check the log for details",
	CategoryConflict:            "Conflict error! Check the log for details",
	CategoryInternalServer:      "Internal server error! Check the log for details",
	CategoryNotFound:            "Resource not found error! Check the log for details",
	CategoryPermissionDenied:    "Permission denied error! Check the log for details",
	CategoryRateLimit:           "Rate limit error! Check the log for details",
	CategoryUnprocessableEntity: "Unable to process request error! Check the log for details",
	CategoryAPIError:            "API error! Check the log for details",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", c)
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	for k, v := range categoryNames {
		if v == string(text) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown failure category %q", text)
}

// Message returns the fixed user message of c. Unknown failures get the
// generic run failure message.
func (c Category) Message() string {
	if msg, ok := categoryMessages[c]; ok {
		return msg
	}
	return MessageRunFailed
}

// BackendError is a classified failure raised while a crew runs.
type BackendError struct {
	Category Category `json:"category"`

	// Provider is the backend that produced the error, when known.
	Provider string `json:"provider,omitempty"`

	// StatusCode is the HTTP status code of the backend response, if available.
	StatusCode int `json:"status_code,omitempty"`

	// Message is the raw error description. It is logged, never shown.
	Message string `json:"message"`

	Cause error `json:"-"`
}

func (e *BackendError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[backend:%s]", e.Category))
	if e.Provider != "" {
		sb.WriteString(" " + e.Provider + ":")
	}
	sb.WriteString(" ")
	sb.WriteString(e.Message)
	if e.StatusCode != 0 {
		sb.WriteString(fmt.Sprintf(" (HTTP %d)", e.StatusCode))
	}
	return sb.String()
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Is matches a target BackendError carrying only a Category.
func (e *BackendError) Is(target error) bool {
	t, ok := target.(*BackendError)
	if !ok {
		return false
	}
	if t.Provider == "" && t.Message == "" && t.StatusCode == 0 {
		return e.Category == t.Category
	}
	return false
}

// NewBackendError classifies err. An error that already is a BackendError is
// returned with the provider filled in.
func NewBackendError(err error, provider string) *BackendError {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		if be.Provider == "" {
			be.Provider = provider
		}
		return be
	}
	return &BackendError{
		Category:   Classify(err),
		Provider:   provider,
		StatusCode: extractStatusCode(err),
		Message:    err.Error(),
		Cause:      err,
	}
}

// Classify determines the failure category of a raw error.
// It uses a layered approach: typed errors → HTTP status → message patterns.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	// Layer 1: already classified.
	var be *BackendError
	if errors.As(err, &be) {
		return be.Category
	}

	// Layer 2: transport errors.
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CategoryConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryConnection
	}

	// Layer 3: HTTP status code.
	if status := extractStatusCode(err); status != 0 {
		if c := classifyFromStatus(status); c != CategoryUnknown {
			return c
		}
	}

	// Layer 4: message patterns (last resort).
	return classifyFromMessage(err.Error())
}

func classifyFromStatus(status int) Category {
	switch {
	case status == http.StatusRequestTimeout:
		return CategoryTimeout
	case status == http.StatusUnauthorized:
		return CategoryAuthentication
	case status == http.StatusBadRequest:
		return CategoryBadRequest
	case status == http.StatusConflict:
		return CategoryConflict
	case status >= http.StatusInternalServerError:
		return CategoryInternalServer
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusForbidden:
		return CategoryPermissionDenied
	case status == http.StatusTooManyRequests:
		return CategoryRateLimit
	case status == http.StatusUnprocessableEntity:
		return CategoryUnprocessableEntity
	case status >= http.StatusBadRequest:
		return CategoryAPIError
	default:
		return CategoryUnknown
	}
}

var messagePatterns = []struct {
	category Category
	patterns []string
}{
	{CategoryTimeout, []string{"timeout", "timed out", "deadline exceeded"}},
	{CategoryConnection, []string{"connection refused", "connection reset", "no such host", "connection error", "broken pipe"}},
	{CategoryAuthentication, []string{"unauthorized", "authentication", "invalid api key", "invalid_api_key", "incorrect api key"}},
	{CategoryBadRequest, []string{"bad request", "invalid_request_error", "invalid request"}},
	{CategoryConflict, []string{"conflict"}},
	{CategoryInternalServer, []string{"internal server error", "internal error", "bad gateway", "service unavailable", "overloaded"}},
	{CategoryNotFound, []string{"not found", "not_found", "does not exist"}},
	{CategoryPermissionDenied, []string{"permission denied", "permission_denied", "forbidden", "access denied"}},
	{CategoryRateLimit, []string{"rate limit", "rate_limit", "ratelimit", "too many requests", "quota exceeded", "insufficient_quota"}},
	{CategoryUnprocessableEntity, []string{"unprocessable"}},
	{CategoryAPIError, []string{"api error", "api_error", "apierror"}},
}

func classifyFromMessage(msg string) Category {
	lower := strings.ToLower(msg)
	for _, group := range messagePatterns {
		for _, p := range group.patterns {
			if strings.Contains(lower, p) {
				return group.category
			}
		}
	}
	return CategoryUnknown
}

// statusCodeCarrier is an interface for errors that carry an HTTP status code.
type statusCodeCarrier interface {
	StatusCode() int
}

// statusCarrier is an interface for errors that carry a status field.
type statusCarrier interface {
	Status() int
}

// statusInMessage matches the status rendering of the OpenAI compatible clients,
// e.g. "error, status code: 429, status: 429 Too Many Requests, message: ...".
var statusInMessage = regexp.MustCompile(`status code: (\d{3})`)

// extractStatusCode attempts to extract an HTTP status code from an error.
func extractStatusCode(err error) int {
	var sc statusCodeCarrier
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	var s statusCarrier
	if errors.As(err, &s) {
		return s.Status()
	}
	if m := statusInMessage.FindStringSubmatch(err.Error()); m != nil {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil {
			return code
		}
	}
	return 0
}

// MappingKind tells which catalog reference failed to map.
type MappingKind string

const (
	MappingTool       MappingKind = "tool"
	MappingAgentLLM   MappingKind = "agent"
	MappingManagerLLM MappingKind = "manager"
)

// MappingError reports a catalog key that could not be turned into a runtime
// object while the crew was being built.
type MappingError struct {
	Kind MappingKind `json:"kind"`
	Key  string      `json:"key"`
	// AgentID is the agent the key belongs to, empty for the manager.
	AgentID string `json:"agent_id,omitempty"`
	Cause   error  `json:"-"`
}

func (e *MappingError) Error() string {
	owner := "crew"
	if e.AgentID != "" {
		owner = "agent " + e.AgentID
	}
	return fmt.Sprintf("failed to load %s %q for %s: %v", e.Kind, e.Key, owner, e.Cause)
}

func (e *MappingError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the generic load failure message for the kind.
func (e *MappingError) UserMessage() string {
	if e.Kind == MappingTool {
		return MessageToolFailed
	}
	return fmt.Sprintf("There was an error loading %s LLM! Check the log for details", e.Kind)
}
