package v1

import (
	"errors"
	"net/http"

	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/store/crewfile"
	runtimeErrno "github.com/kiosk404/andalem/internal/andalem/service/runtime/pkg/errno"
	"github.com/kiosk404/andalem/pkg/errorx"
)

// Andalem handler error codes.
// Code format: 11XXYY
//   - 11: module prefix (andalem handler)
//   - XX: resource group (00=common, 01=session, 02=agent, 03=task, 04=crew, 05=crew file, 06=run, 07=catalog)
//   - YY: sequential error number

const (
	// Common request errors (1100xx).
	ErrBind       = 110001
	ErrValidation = 110002

	// Session errors (1101xx).
	ErrSessionNotFound = 110101
	ErrSessionCreate   = 110102
	ErrSessionList     = 110103
	ErrSessionDelete   = 110104

	// Agent errors (1102xx).
	ErrAgentNotFound = 110201
	ErrAgentAdd      = 110202
	ErrAgentSettings = 110203

	// Task errors (1103xx).
	ErrTaskNotFound    = 110301
	ErrTaskAdd         = 110302
	ErrFirstTaskLocked = 110303

	// Crew errors (1104xx).
	ErrCrewNotFound = 110401
	ErrCrewSettings = 110402
	ErrCrewNotReady = 110403
	ErrEmptyCrew    = 110404

	// Crew file errors (1105xx).
	ErrEmptyName        = 110501
	ErrDuplicateName    = 110502
	ErrCrewFileNotFound = 110503
	ErrCrewFile         = 110504

	// Run errors (1106xx).
	ErrRunNotFound      = 110601
	ErrRunStart         = 110602
	ErrQuestionNotFound = 110603

	// Catalog errors (1107xx).
	ErrProviderList = 110701
)

func init() {
	// Common.
	errorx.MustRegister(newCoder(ErrBind, http.StatusBadRequest, "Request body binding failed"))
	errorx.MustRegister(newCoder(ErrValidation, http.StatusBadRequest, "Request validation failed"))

	// Session.
	errorx.MustRegister(newCoder(ErrSessionNotFound, http.StatusNotFound, "Session not found"))
	errorx.MustRegister(newCoder(ErrSessionCreate, http.StatusInternalServerError, "Failed to create session"))
	errorx.MustRegister(newCoder(ErrSessionList, http.StatusInternalServerError, "Failed to list sessions"))
	errorx.MustRegister(newCoder(ErrSessionDelete, http.StatusInternalServerError, "Failed to delete session"))

	// Agent.
	errorx.MustRegister(newCoder(ErrAgentNotFound, http.StatusNotFound, "Agent not found"))
	errorx.MustRegister(newCoder(ErrAgentAdd, http.StatusInternalServerError, "Failed to add agent"))
	errorx.MustRegister(newCoder(ErrAgentSettings, http.StatusBadRequest, "Invalid agent settings"))

	// Task.
	errorx.MustRegister(newCoder(ErrTaskNotFound, http.StatusNotFound, "Task not found"))
	errorx.MustRegister(newCoder(ErrTaskAdd, http.StatusInternalServerError, "Failed to add task"))
	errorx.MustRegister(newCoder(ErrFirstTaskLocked, http.StatusConflict, "The first task of an agent cannot be removed"))

	// Crew.
	errorx.MustRegister(newCoder(ErrCrewNotFound, http.StatusNotFound, "Crew not found"))
	errorx.MustRegister(newCoder(ErrCrewSettings, http.StatusBadRequest, "Invalid crew settings"))
	errorx.MustRegister(newCoder(ErrCrewNotReady, http.StatusUnprocessableEntity, "Crew configuration is incomplete"))
	errorx.MustRegister(newCoder(ErrEmptyCrew, http.StatusUnprocessableEntity, "Crew has no agents"))

	// Crew file.
	errorx.MustRegister(newCoder(ErrEmptyName, http.StatusBadRequest, "No file name entered"))
	errorx.MustRegister(newCoder(ErrDuplicateName, http.StatusConflict, "A crew file with the same name already exists"))
	errorx.MustRegister(newCoder(ErrCrewFileNotFound, http.StatusNotFound, "Crew file not found"))
	errorx.MustRegister(newCoder(ErrCrewFile, http.StatusInternalServerError, "Crew file could not be read or written"))

	// Run.
	errorx.MustRegister(newCoder(ErrRunNotFound, http.StatusNotFound, "Run not found"))
	errorx.MustRegister(newCoder(ErrRunStart, http.StatusInternalServerError, "Failed to start run"))
	errorx.MustRegister(newCoder(ErrQuestionNotFound, http.StatusNotFound, "Question not found"))

	// Catalog.
	errorx.MustRegister(newCoder(ErrProviderList, http.StatusInternalServerError, "Failed to list providers"))
}

type coder struct {
	code int
	http int
	msg  string
}

func newCoder(code, httpStatus int, msg string) *coder {
	return &coder{code: code, http: httpStatus, msg: msg}
}

func (c *coder) Code() int         { return c.code }
func (c *coder) HTTPStatus() int   { return c.http }
func (c *coder) String() string    { return c.msg }
func (c *coder) Reference() string { return "" }

var sentinelCodes = []struct {
	err  error
	code int
}{
	{errno.ErrSessionNotFound, ErrSessionNotFound},
	{errno.ErrAgentNotFound, ErrAgentNotFound},
	{errno.ErrTaskNotFound, ErrTaskNotFound},
	{errno.ErrCrewNotFound, ErrCrewNotFound},
	{errno.ErrFirstTaskLocked, ErrFirstTaskLocked},
	{errno.ErrInvalidSettings, ErrValidation},
	{errno.ErrUnknownTool, ErrValidation},
	{errno.ErrUnknownModel, ErrValidation},
	{errno.ErrEmptyName, ErrEmptyName},
	{errno.ErrDuplicateName, ErrDuplicateName},
	{errno.ErrCrewFileNotFound, ErrCrewFileNotFound},
	{runtimeErrno.ErrCrewNotReady, ErrCrewNotReady},
	{runtimeErrno.ErrEmptyCrew, ErrEmptyCrew},
	{runtimeErrno.ErrRunNotFound, ErrRunNotFound},
	{errQuestionNotFound, ErrQuestionNotFound},
}

// codeOf picks the code of the first known domain error in err's chain,
// falling back to fallback.
func codeOf(err error, fallback int) int {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	var (
		ioErr    *crewfile.IOError
		parseErr *crewfile.ParseError
	)
	if errors.As(err, &ioErr) || errors.As(err, &parseErr) {
		return ErrCrewFile
	}
	return fallback
}
