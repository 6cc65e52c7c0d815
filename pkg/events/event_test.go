package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStampsOccurrence(t *testing.T) {
	before := time.Now()
	e := New("CHAT_TURN_COMPLETED", map[string]interface{}{"rule": "no_match"})

	assert.Equal(t, "CHAT_TURN_COMPLETED", e.EventType())
	assert.Equal(t, "no_match", e.Payload()["rule"])
	assert.False(t, e.Timestamp().Before(before))
}
