package service

import (
	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/workflow"
)

// authorize checks the actor against the party of action. sourceOwnerID is the current owner
// of the source objective, resolved in the same transaction as the link lock.
func authorize(link *model.OkrLink, sourceOwnerID, actorID string, action workflow.Action) error {
	switch workflow.PartyFor(action) {
	case workflow.PartyTarget:
		return ensureTargetOwner(link, actorID, action)
	case workflow.PartySource:
		return ensureSourceOwner(link, sourceOwnerID, actorID, action)
	case workflow.PartyEither:
		return ensureCanModifyApproved(link, sourceOwnerID, actorID)
	}
	return errForbidden("%s is not permitted", action)
}

func ensureTargetOwner(link *model.OkrLink, actorID string, action workflow.Action) error {
	if link.TargetOwnerID != actorID {
		return errForbidden("only the target owner can %s link %s", action, link.ID)
	}
	return nil
}

// ownership is checked against the current owner of the source objective, not the requester
func ensureSourceOwner(link *model.OkrLink, sourceOwnerID, actorID string, action workflow.Action) error {
	if sourceOwnerID != actorID {
		return errForbidden("only the owner of objective %s can %s link %s", link.SourceObjectiveID, action, link.ID)
	}
	return nil
}

func ensureCanModifyApproved(link *model.OkrLink, sourceOwnerID, actorID string) error {
	if link.TargetOwnerID == actorID || sourceOwnerID == actorID {
		return nil
	}
	return errForbidden("only the source or target owner can modify link %s", link.ID)
}

// recipientsFor lists the counterparts of a transition. The source party is the current owner
// of the source objective, which may no longer be the requester. The dispatcher drops the actor.
func recipientsFor(action workflow.Action, link *model.OkrLink, sourceOwnerID string) []string {
	switch action {
	case workflow.ActionApprove, workflow.ActionReject, workflow.ActionRequestChanges:
		return []string{sourceOwnerID}
	case workflow.ActionResubmit, workflow.ActionCancel:
		return []string{link.TargetOwnerID}
	case workflow.ActionUnlink:
		return []string{sourceOwnerID, link.TargetOwnerID}
	}
	return nil
}
