package service

import (
	"testing"

	"github.com/emrgen/okr/internal/model"
	"github.com/emrgen/okr/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestBuildLinkPayload(t *testing.T) {
	source := &model.Objective{ID: "a", OwnerID: "u1"}
	target := &model.Objective{ID: "b", OwnerID: "u2"}
	kr := &model.KeyResult{ID: "kr-1", ObjectiveID: "b", Objective: target}

	link, err := BuildLinkPayload(
		LinkSource{Type: model.EntityObjective, Objective: source},
		LinkTarget{Type: model.EntityKeyResult, KeyResult: kr},
		"u1", "note",
	)
	require.NoError(t, err)
	assert.Equal(t, "a", link.SourceObjectiveID)
	assert.Equal(t, "b", link.TargetObjectiveID)
	assert.Equal(t, "kr-1", link.TargetID())
	assert.Equal(t, "u2", link.TargetOwnerID)
	assert.Equal(t, workflow.StatusPending, link.Status)
	assert.True(t, link.IsActive)

	link, err = BuildLinkPayload(
		LinkSource{Type: model.EntityObjective, Objective: source},
		LinkTarget{Type: model.EntityObjective, Objective: target},
		"u1", "",
	)
	require.NoError(t, err)
	assert.Nil(t, link.TargetKrID)
	assert.Equal(t, "b", link.TargetID())
}

func TestBuildLinkPayload_Errors(t *testing.T) {
	source := &model.Objective{ID: "a", OwnerID: "u1"}

	tests := []struct {
		name   string
		source LinkSource
		target LinkTarget
		code   ErrorCode
	}{
		{"key result source", LinkSource{Type: model.EntityKeyResult, Objective: source}, LinkTarget{Type: model.EntityObjective, Objective: &model.Objective{ID: "b"}}, CodeInvalidSource},
		{"unknown target", LinkSource{Type: model.EntityObjective, Objective: source}, LinkTarget{Type: "team"}, CodeInvalidTarget},
		{"missing key result", LinkSource{Type: model.EntityObjective, Objective: source}, LinkTarget{Type: model.EntityKeyResult}, CodeInvalidTarget},
		{"self link", LinkSource{Type: model.EntityObjective, Objective: source}, LinkTarget{Type: model.EntityObjective, Objective: source}, CodeInvalidTarget},
		{"key result of the source", LinkSource{Type: model.EntityObjective, Objective: source}, LinkTarget{Type: model.EntityKeyResult, KeyResult: &model.KeyResult{ID: "kr", Objective: source}}, CodeInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLinkPayload(tt.source, tt.target, "u1", "")
			code, ok := CodeOf(err)
			require.True(t, ok, "unexpected error: %v", err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestLinkError_GRPCStatus(t *testing.T) {
	tests := map[error]codes.Code{
		errDuplicateSourceLink(model.EntityObjective, "b"): codes.AlreadyExists,
		errDuplicateLink(model.EntityObjective, "b"):       codes.AlreadyExists,
		errInvalidSource("key_result"):                     codes.InvalidArgument,
		errForbidden("no"):                                 codes.PermissionDenied,
		errInvalidState(workflow.ErrInvalidTransition):     codes.FailedPrecondition,
		errNotFound("link", "x"):                           codes.NotFound,
	}

	for err, want := range tests {
		st, ok := status.FromError(err)
		require.True(t, ok)
		assert.Equal(t, want, st.Code(), err.Error())
	}
}
