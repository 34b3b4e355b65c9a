package service

import (
	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/workflow"
)

// LinkSource is the entity asking to be linked.
type LinkSource struct {
	Type      string
	Objective *model.Objective
}

// LinkTarget is the objective or key result the source wants to sit beneath.
// KeyResult.Objective must be loaded for key result targets.
type LinkTarget struct {
	Type      string
	Objective *model.Objective
	KeyResult *model.KeyResult
}

// BuildLinkPayload normalizes a link request into a pending link ready for insertion.
func BuildLinkPayload(source LinkSource, target LinkTarget, actorID, note string) (*model.OkrLink, error) {
	if source.Type != model.EntityObjective || source.Objective == nil {
		return nil, errInvalidSource(source.Type)
	}

	link := &model.OkrLink{
		SourceType:        model.EntityObjective,
		SourceObjectiveID: source.Objective.ID,
		TargetType:        target.Type,
		Status:            workflow.StatusPending,
		RequestedBy:       actorID,
		RequestNote:       note,
		IsActive:          true,
	}

	var targetObjective *model.Objective
	switch target.Type {
	case model.EntityObjective:
		targetObjective = target.Objective
	case model.EntityKeyResult:
		if target.KeyResult == nil {
			return nil, errInvalidTarget("key result target is missing")
		}
		targetObjective = target.KeyResult.Objective
		krID := target.KeyResult.ID
		link.TargetKrID = &krID
	default:
		return nil, errInvalidTarget("unknown target type %q", target.Type)
	}

	if targetObjective == nil {
		return nil, errInvalidTarget("target objective is missing")
	}
	if targetObjective.ID == source.Objective.ID {
		return nil, errInvalidTarget("an objective cannot be linked beneath itself")
	}

	link.TargetObjectiveID = targetObjective.ID
	link.TargetOwnerID = targetObjective.OwnerID

	return link, nil
}
