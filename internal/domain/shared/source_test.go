package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

func TestParseSource_KnownValues(t *testing.T) {
	// Act
	rfid, err1 := shared.ParseSource("RFID")
	nonRFID, err2 := shared.ParseSource("NON_RFID")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, shared.SourceRFID, rfid)
	assert.Equal(t, shared.SourceNonRFID, nonRFID)
}

func TestParseSource_RejectsUnknown(t *testing.T) {
	// Act
	_, err := shared.ParseSource("rfid")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestSource_Valid(t *testing.T) {
	// Assert
	assert.True(t, shared.SourceRFID.Valid())
	assert.True(t, shared.SourceNonRFID.Valid())
	assert.False(t, shared.Source("BARCODE").Valid())
}
