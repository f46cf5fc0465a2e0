package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/fittrack/internal/model"
	"github.com/fittrack/fittrack/internal/service"
)

func TestExerciseHandler_List(t *testing.T) {
	f := newFixture(t)
	_, err := f.exercises.Seed(context.Background(), service.DefaultExercises)
	require.NoError(t, err)

	decode := func(t *testing.T, body []byte) []model.Exercise {
		t.Helper()
		var resp struct {
			Exercises []model.Exercise `json:"exercises"`
		}
		require.NoError(t, json.Unmarshal(body, &resp))
		return resp.Exercises
	}

	t.Run("all", func(t *testing.T) {
		rec := f.get("/app/exercises")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Len(t, decode(t, rec.Body.Bytes()), len(service.DefaultExercises))
	})

	t.Run("by category", func(t *testing.T) {
		rec := f.get("/app/exercises?category=cardio")
		require.Equal(t, http.StatusOK, rec.Code)

		exercises := decode(t, rec.Body.Bytes())
		require.NotEmpty(t, exercises)
		for _, e := range exercises {
			assert.Equal(t, model.CategoryCardio, e.Category)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		rec := f.get("/app/exercises?category=juggling")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid category"}`, rec.Body.String())
	})
}
