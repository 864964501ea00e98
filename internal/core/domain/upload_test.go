package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadStages(t *testing.T) {
	stages := UploadStages()

	assert.Len(t, stages, 4)
	assert.Equal(t, StageExtracting, stages[0].Stage)
	assert.Equal(t, StageFinalizing, stages[len(stages)-1].Stage)
	assert.Equal(t, 100, stages[len(stages)-1].Percent)

	prev := TransmissionCeiling
	for _, s := range stages {
		assert.Greater(t, s.Percent, prev, "progress must increase at %s", s.Stage)
		assert.NotEmpty(t, s.Label)
		assert.Positive(t, s.Pause)
		prev = s.Percent
	}
}

func TestUploadStage_String(t *testing.T) {
	tests := map[UploadStage]string{
		StageIdle:         "idle",
		StageTransmitting: "transmitting",
		StageExtracting:   "extracting",
		StageEmbedding:    "embedding",
		StageIndexing:     "indexing",
		StageFinalizing:   "finalizing",
		UploadStage(42):   "unknown",
	}
	for stage, want := range tests {
		assert.Equal(t, want, stage.String())
	}
}
