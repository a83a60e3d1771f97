package services

import (
	"context"
	"errors"
	"testing"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobApplications(t *testing.T) {
	service := NewJobService(testutil.NewTestDB(t))
	ctx := context.Background()

	id, err := service.CreateApplication(ctx, models.JobApplicationInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Position: "Line cook",
	})
	require.NoError(t, err)

	applications, err := service.ListApplications(ctx)
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, models.ApplicationPending, applications[0].Status)

	require.NoError(t, service.UpdateApplicationStatus(ctx, id, models.ApplicationInterview))
	err = service.UpdateApplicationStatus(ctx, id, "ghosted")
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))

	require.NoError(t, service.DeleteApplication(ctx, id))
	assert.ErrorIs(t, service.DeleteApplication(ctx, id), ErrNotFound)
}

func TestJobPositions(t *testing.T) {
	service := NewJobService(testutil.NewTestDB(t))
	ctx := context.Background()

	server, err := service.CreatePosition(ctx, models.JobPositionInput{Name: "Server", Description: "Front of house"})
	require.NoError(t, err)
	order := 1
	_, err = service.CreatePosition(ctx, models.JobPositionInput{Name: "Dishwasher", DisplayOrder: &order, IsActive: models.FlagPtr(false)})
	require.NoError(t, err)

	all, err := service.ListPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, all[0].IsActive)

	public, err := service.ListPublicPositions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.PublicJobPosition{{ID: server, Name: "Server", Description: "Front of house"}}, public)

	require.NoError(t, service.SetPositionActive(ctx, server, false))
	public, err = service.ListPublicPositions(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)

	assert.ErrorIs(t, service.SetPositionActive(ctx, 999, true), ErrNotFound)
	require.NoError(t, service.DeletePosition(ctx, server))
}

func TestApplicationFields(t *testing.T) {
	service := NewJobService(testutil.NewTestDB(t))
	ctx := context.Background()

	id, err := service.CreateField(ctx, models.ApplicationFieldInput{FieldName: "Availability"})
	require.NoError(t, err)

	_, err = service.CreateField(ctx, models.ApplicationFieldInput{FieldName: "Shift", FieldType: "select"})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "options")

	fields, err := service.ListFields(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "text", fields[0].FieldType)
	assert.False(t, fields[0].Required)

	require.NoError(t, service.DeleteField(ctx, id))
	assert.ErrorIs(t, service.DeleteField(ctx, id), ErrNotFound)
}
