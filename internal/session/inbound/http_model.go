package inbound

import "time"

type InfoResponse struct {
	SessionID  string            `json:"sessionId,omitempty"`
	Message    string            `json:"message,omitempty"`
	LoginAt    *time.Time        `json:"loginAt,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Timestamp  int64             `json:"currentTime"`
}

type SetResponse struct {
	Message   string `json:"message"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

type GetResponse struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Found     bool   `json:"found"`
	Timestamp int64  `json:"timestamp"`
}

type RemoveResponse struct {
	Message   string `json:"message"`
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

type InvalidateResponse struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
