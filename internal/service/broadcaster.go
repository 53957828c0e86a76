package service

import "screener/internal/model"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToAdmins(msgType string, payload interface{})
}

// EventSubmissionScored is sent to admins after every scored submission
const EventSubmissionScored = "submission_scored"

func publishSubmission(b Broadcaster, event model.SubmissionEvent) {
	if b == nil {
		return
	}
	b.BroadcastToAdmins(EventSubmissionScored, event)
}
