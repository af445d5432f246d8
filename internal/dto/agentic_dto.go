package dto

import (
	"time"

	"ai-taskmanager-be/pkg/agent/history"
)

type AskRequest struct {
	FileId   string `json:"file_id" validate:"required"`
	Question string `json:"question"`
}

type AskResponse struct {
	DocumentId   string    `json:"document_id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	ResponseTime time.Time `json:"response_time"`
	AgentType    string    `json:"agent_type"`
	FileInfo     FileInfo  `json:"file_info"`
}

// AskErrorResponse keeps the ask payload shape when the question could not be answered.
type AskErrorResponse struct {
	Error      string  `json:"error"`
	DocumentId string  `json:"document_id"`
	Question   string  `json:"question"`
	Answer     *string `json:"answer"`
}

type HistoryResponse struct {
	DocumentId string             `json:"document_id"`
	History    []history.Exchange `json:"history"`
}

type ClearHistoryResponse struct {
	Cleared bool   `json:"cleared"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	StrategiesTotal  int    `json:"strategies_total"`
	StrategiesActive int    `json:"strategies_active"`
}
