package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardtable/blackjack/internal/config"
	"github.com/cardtable/blackjack/internal/game"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	base := config.Default().Tables[0]

	low := base
	low.Name = "low"
	high := base
	high.Name = "high"
	high.MinBet = 100
	high.MaxBet = 1000

	cfg := config.Default()
	cfg.Tables = []config.TableConfig{low, high}
	require.NoError(t, cfg.Validate())
	return NewServer(cfg, testLogger(), quartz.NewMock(t))
}

func TestServerHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestServerTables(t *testing.T) {
	srv := newTestServer(t)

	assert.NotNil(t, srv.GetTable("low"))
	assert.NotNil(t, srv.GetTable("high"))
	assert.Nil(t, srv.GetTable("missing"))

	infos := srv.ListTables()
	require.Len(t, infos, 2)
	assert.Equal(t, "high", infos[0].Name)
	assert.Equal(t, "low", infos[1].Name)
	assert.Equal(t, 100, infos[0].MinBet)
	assert.Equal(t, "betting", infos[0].State)
}

func TestMessageEnvelope(t *testing.T) {
	msg, err := NewMessage(MessageTypePlaceBet, PlaceBetData{Amount: 25})
	require.NoError(t, err)
	assert.False(t, msg.Timestamp.IsZero())

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, MessageTypePlaceBet, decoded.Type)

	var data PlaceBetData
	require.NoError(t, json.Unmarshal(decoded.Data, &data))
	assert.Equal(t, 25, data.Amount)
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, "bet_out_of_range", errorCode(game.ErrBetOutOfRange))
	assert.Equal(t, "not_seated", errorCode(errNotSeated))
	assert.Equal(t, "internal", errorCode(assert.AnError))
}
