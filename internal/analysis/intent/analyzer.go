// Package intent classifies user utterances by keyword so the dialogue
// router can pick a handling path without a model round trip.
package intent

import "strings"

// Label identifies the handling path for an utterance.
type Label string

const (
	// Booking starts or belongs to the appointment flow.
	Booking Label = "booking"
	// Symptom triggers the canned clinical-referral response.
	Symptom Label = "symptom"
	// General falls through to the answer generator.
	General Label = "general"
)

var keywordBuckets = map[Label][]string{
	Booking: {"appointment"},
	Symptom: {"symptom"},
}

// precedence when several buckets match in one utterance.
var order = []Label{Booking, Symptom}

// Classify returns the first label whose keywords appear in the utterance.
// Matching is a case-insensitive substring test.
func Classify(utterance string) Label {
	lowered := strings.ToLower(utterance)
	for _, label := range order {
		for _, keyword := range keywordBuckets[label] {
			if strings.Contains(lowered, keyword) {
				return label
			}
		}
	}
	return General
}

// Command words recognized inside an active booking flow.
const (
	cmdCancel  = "cancel"
	cmdConfirm = "confirm"
)

// IsCancel reports whether the utterance is exactly the cancel command,
// case-insensitively, ignoring surrounding whitespace.
func IsCancel(utterance string) bool {
	return strings.EqualFold(strings.TrimSpace(utterance), cmdCancel)
}

// IsConfirm reports whether the utterance is exactly the confirm command.
func IsConfirm(utterance string) bool {
	return strings.EqualFold(strings.TrimSpace(utterance), cmdConfirm)
}
