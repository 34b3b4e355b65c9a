package notify

import (
	"fmt"
	"strings"

	"github.com/emrgen/okr/internal/model"
)

const (
	EventReminder = "reminder"
)

var labels = map[string]string{
	"requested":     "requested to link",
	"approved":      "approved the link",
	"rejected":      "rejected the link",
	"needs_changes": "requested changes to the link",
	"resubmitted":   "resubmitted the link request",
	"cancelled":     "cancelled the link request",
	"unlinked":      "unlinked",
	EventReminder:   "is waiting for your decision on",
}

// Label returns the human readable verb phrase of a link event.
func Label(event string) string {
	if label, ok := labels[event]; ok {
		return label
	}
	return strings.ReplaceAll(event, "_", " ")
}

// Summary renders "Source → Target" or "Source → Target / Key result".
func Summary(link *model.OkrLink) string {
	source := link.SourceObjectiveID
	if link.SourceObjective != nil {
		source = link.SourceObjective.Title
	}

	target := link.TargetObjectiveID
	if link.TargetObjective != nil {
		target = link.TargetObjective.Title
	}

	if link.TargetType == model.EntityKeyResult {
		kr := ""
		if link.TargetKrID != nil {
			kr = *link.TargetKrID
		}
		if link.TargetKr != nil {
			kr = link.TargetKr.Title
		}
		return fmt.Sprintf("%s → %s / %s", source, target, kr)
	}

	return fmt.Sprintf("%s → %s", source, target)
}

// Compose builds the message body sent to the counterpart of a transition.
func Compose(actorName, event string, link *model.OkrLink, note string) string {
	var b strings.Builder
	b.WriteString(actorName)
	b.WriteString(" ")
	b.WriteString(Label(event))
	b.WriteString(": ")
	b.WriteString(Summary(link))
	if note = strings.TrimSpace(note); note != "" {
		b.WriteString(" Note: ")
		b.WriteString(note)
	}
	return b.String()
}

// Subject is the short title used for email delivery.
func Subject(event string, link *model.OkrLink) string {
	return fmt.Sprintf("[OKR] Link %s: %s", strings.ReplaceAll(event, "_", " "), Summary(link))
}
