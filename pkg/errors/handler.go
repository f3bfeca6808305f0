package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteError maps err onto an HTTP response. Unclassified errors become 500s
// with a generic body so internals never leak to the client.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		appErr = NewInternalError("internal server error")
		appErr.Cause = err
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("error_type", string(appErr.Type)),
			zap.Error(err),
		)
	} else {
		logger.Debug("request rejected",
			zap.String("error_type", string(appErr.Type)),
			zap.String("message", appErr.Message),
		)
	}

	body := ErrorResponse{
		Error: appErr.Message,
		Type:  string(appErr.Type),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(body)
}
