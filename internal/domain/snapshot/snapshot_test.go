package snapshot_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

func TestSnapshot_Deducted(t *testing.T) {
	// Arrange
	key := snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID}
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	deducted := snapshot.Reconstruct(key, 3, &snapshot.ConfidenceDeducted, 1, at)
	present := snapshot.Reconstruct(key, 3, &snapshot.ConfidencePresent, 1, at)
	nonRFID := snapshot.Reconstruct(key, 3, nil, 1, at)

	// Assert
	assert.True(t, deducted.Deducted())
	assert.False(t, present.Deducted())
	assert.False(t, nonRFID.Deducted())
}

func TestSnapshot_ConfidenceIsCopied(t *testing.T) {
	// Arrange
	key := snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID}
	row := snapshot.Reconstruct(key, 3, &snapshot.ConfidencePresent, 1, time.Time{})

	// Act - mutating the returned pointer must not touch the row
	conf := row.Confidence()
	*conf = decimal.Zero

	// Assert
	assert.True(t, row.Confidence().Equal(snapshot.ConfidencePresent))
}

func TestConfidenceGrades(t *testing.T) {
	// Assert
	assert.Equal(t, "0.9", snapshot.ConfidencePresent.String())
	assert.Equal(t, "0.7", snapshot.ConfidenceEmpty.String())
	assert.Equal(t, "0.55", snapshot.ConfidenceDeducted.String())
}
