package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/botwright/teleflow/flow"
)

func newTestContext(t *testing.T, upd tele.Update) tele.Context {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return bot.NewContext(upd)
}

func TestEventFromText(t *testing.T) {
	c := newTestContext(t, tele.Update{Message: &tele.Message{
		Sender: &tele.User{ID: 42, FirstName: "Ada", LastName: "Lovelace", Username: "ada"},
		Text:   "order tea",
	}})

	ev := EventFrom(c)
	assert.Equal(t, flow.KindText, ev.Kind)
	assert.Equal(t, "order tea", ev.Text)
	assert.Equal(t, "order tea", ev.Signal())
	assert.Equal(t, int64(42), ev.Sender.ID)
	assert.Equal(t, "Ada Lovelace", ev.Sender.Name)
	assert.Equal(t, "ada", ev.Sender.Username)
}

func TestEventFromCommand(t *testing.T) {
	c := newTestContext(t, tele.Update{Message: &tele.Message{
		Sender: &tele.User{ID: 42},
		Text:   "/start deep-link",
	}})

	ev := EventFrom(c)
	assert.Equal(t, flow.KindCommand, ev.Kind)
	assert.Equal(t, "/start deep-link", ev.Text)
	assert.Equal(t, "/start deep-link", ev.Signal())
}

func TestEventFromPhoto(t *testing.T) {
	c := newTestContext(t, tele.Update{Message: &tele.Message{
		Sender:  &tele.User{ID: 42},
		Photo:   &tele.Photo{File: tele.File{FileID: "ph-123"}},
		Caption: "holiday snap",
	}})

	ev := EventFrom(c)
	assert.Equal(t, flow.KindPhoto, ev.Kind)
	assert.Equal(t, "holiday snap", ev.Text)
	assert.Equal(t, "ph-123", ev.Data)
	assert.Equal(t, flow.TriggerPhoto, ev.Signal())
}

func TestEventFromLocation(t *testing.T) {
	c := newTestContext(t, tele.Update{Message: &tele.Message{
		Sender:   &tele.User{ID: 42},
		Location: &tele.Location{Lat: 52.520008, Lng: 13.404954},
	}})

	ev := EventFrom(c)
	assert.Equal(t, flow.KindLocation, ev.Kind)
	assert.Equal(t, flow.TriggerLocation, ev.Signal())

	lat, lng, ok := ParseLocation(ev.Data)
	require.True(t, ok)
	assert.InDelta(t, 52.520008, lat, 1e-5)
	assert.InDelta(t, 13.404954, lng, 1e-5)
}

func TestEventFromCallback(t *testing.T) {
	t.Run("parsed button data", func(t *testing.T) {
		c := newTestContext(t, tele.Update{Callback: &tele.Callback{
			Sender: &tele.User{ID: 42},
			Unique: "confirm",
			Data:   "7",
		}})

		ev := EventFrom(c)
		assert.Equal(t, flow.KindCallback, ev.Kind)
		assert.Equal(t, "confirm|7", ev.Signal())
	})

	t.Run("raw button data", func(t *testing.T) {
		c := newTestContext(t, tele.Update{Callback: &tele.Callback{
			Sender: &tele.User{ID: 42},
			Data:   "\fconfirm|7",
		}})

		ev := EventFrom(c)
		assert.Equal(t, flow.KindCallback, ev.Kind)
		assert.Equal(t, "confirm|7", ev.Signal())
	})

	t.Run("bare action", func(t *testing.T) {
		c := newTestContext(t, tele.Update{Callback: &tele.Callback{
			Sender: &tele.User{ID: 42},
			Data:   "restart",
		}})

		ev := EventFrom(c)
		assert.Equal(t, "restart", ev.Signal())
	})
}

func TestLocationRoundTrip(t *testing.T) {
	data := formatLocation(&tele.Location{Lat: -33.92487, Lng: 18.424055})
	lat, lng, ok := ParseLocation(data)
	require.True(t, ok)
	assert.InDelta(t, -33.92487, lat, 1e-5)
	assert.InDelta(t, 18.424055, lng, 1e-5)

	assert.Equal(t, "", formatLocation(nil))
}

func TestParseLocationRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "52.5", "52.5;13.4", "north,south"} {
		_, _, ok := ParseLocation(data)
		assert.False(t, ok, "data %q", data)
	}
}
