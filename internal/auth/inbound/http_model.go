package inbound

import (
	"net/http"
	"time"
)

type LoginRequest struct {
	SubjectID      string `json:"subjectId"`
	ContactAddress string `json:"contactAddress"`
}

type LoginResponse struct {
	Message        string `json:"message"`
	Code           string `json:"code"`
	SubjectID      string `json:"subjectId"`
	ContactAddress string `json:"contactAddress"`
	ExpiresIn      string `json:"expiresIn"`
	Timestamp      int64  `json:"timestamp"`
}

type ValidateRequest struct {
	Code string `json:"otp"`
}

type ValidateResponse struct {
	Message       string `json:"message"`
	Authenticated bool   `json:"authenticated"`
	SubjectID     string `json:"subjectId,omitempty"`
	Timestamp     int64  `json:"timestamp"`

	status int
}

// StatusCode reports 200 for a successful validation and 401 otherwise.
func (v ValidateResponse) StatusCode() int {
	if v.status == 0 {
		return http.StatusOK
	}
	return v.status
}

type StatusResponse struct {
	Authenticated  bool       `json:"authenticated"`
	Message        string     `json:"message,omitempty"`
	SubjectID      string     `json:"subjectId"`
	ContactAddress string     `json:"contactAddress"`
	LoginAt        *time.Time `json:"loginAt"`
	AuthAt         *time.Time `json:"authAt"`
	SessionID      string     `json:"sessionId"`
	Timestamp      int64      `json:"timestamp"`
}

type LogoutResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type HelloResponse struct {
	Message   string   `json:"message"`
	SubjectID string   `json:"subjectId"`
	Roles     []string `json:"roles"`
	Timestamp int64    `json:"timestamp"`
}
