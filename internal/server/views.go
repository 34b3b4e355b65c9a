package server

import (
	v1 "github.com/emrgen/okr/apis/v1"
	"github.com/emrgen/okr/internal/model"
)

func linkView(link *model.OkrLink) *v1.Link {
	view := &v1.Link{
		ID:                     link.ID,
		SourceType:             link.SourceType,
		SourceObjectiveID:      link.SourceObjectiveID,
		TargetType:             link.TargetType,
		TargetObjectiveID:      link.TargetObjectiveID,
		TargetKrID:             link.TargetKrID,
		Status:                 link.Status.String(),
		RequestedBy:            link.RequestedBy,
		TargetOwnerID:          link.TargetOwnerID,
		ApprovedBy:             link.ApprovedBy,
		RequestNote:            link.RequestNote,
		DecisionNote:           link.DecisionNote,
		IsActive:               link.IsActive,
		OwnershipTransferredAt: link.OwnershipTransferredAt,
		RevokedAt:              link.RevokedAt,
		CreatedAt:              link.CreatedAt,
		UpdatedAt:              link.UpdatedAt,
	}

	if link.SourceObjective != nil {
		view.SourceTitle = link.SourceObjective.Title
	}
	if link.TargetKr != nil {
		view.TargetTitle = link.TargetKr.Title
	} else if link.TargetObjective != nil {
		view.TargetTitle = link.TargetObjective.Title
	}

	return view
}

func linkViews(links []*model.OkrLink) []*v1.Link {
	views := make([]*v1.Link, 0, len(links))
	for _, link := range links {
		views = append(views, linkView(link))
	}
	return views
}

func eventViews(events []*model.OkrLinkEvent) []*v1.LinkEvent {
	views := make([]*v1.LinkEvent, 0, len(events))
	for _, e := range events {
		views = append(views, &v1.LinkEvent{
			ID:        e.ID,
			Action:    e.Action,
			ActorID:   e.ActorID,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return views
}

func notificationViews(notifications []*model.Notification) []*v1.Notification {
	views := make([]*v1.Notification, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, &v1.Notification{
			ID:        n.ID,
			Type:      n.Type,
			Message:   n.Message,
			CycleID:   n.CycleID,
			LinkID:    n.LinkID,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		})
	}
	return views
}
