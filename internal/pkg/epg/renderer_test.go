package epg

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StreamNestTV/StreamNest/app/models"
)

var testWindow = Window{
	Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
}

func TestBuildXMLTV_ChannelAndProgramme(t *testing.T) {
	t.Parallel()

	channels := []models.Channel{{ID: 1, Name: "News One", EpgID: "news1.example", LogoURL: "http://l/1.png"}}
	entries := []models.EPGEntry{{
		ChannelID:   1,
		StartTime:   time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC),
		Title:       "Evening News",
		Description: "Daily roundup",
		Category:    "News",
	}}

	out := BuildXMLTV(channels, entries, testWindow)

	assert.Contains(t, out, `<channel id="news1.example">`)
	assert.Contains(t, out, `<display-name>News One</display-name>`)
	assert.Contains(t, out, `<icon src="http://l/1.png"/>`)
	assert.Contains(t, out, `<programme start="20250602180000 +0000" stop="20250602190000 +0000" channel="news1.example">`)
	assert.Contains(t, out, `<title>Evening News</title>`)
	assert.Contains(t, out, `<desc>Daily roundup</desc>`)
	assert.Contains(t, out, `<category>News</category>`)
}

func TestBuildXMLTV_TimestampsRenderInUTC(t *testing.T) {
	t.Parallel()

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	channels := []models.Channel{{ID: 1, Name: "C", EpgID: "c1"}}
	entries := []models.EPGEntry{{
		ChannelID: 1,
		StartTime: time.Date(2025, 6, 2, 20, 0, 0, 0, berlin), // 18:00 UTC
		EndTime:   time.Date(2025, 6, 2, 21, 0, 0, 0, berlin),
		Title:     "Show",
	}}

	out := BuildXMLTV(channels, entries, testWindow)
	assert.Contains(t, out, `start="20250602180000 +0000"`)
	assert.Contains(t, out, `stop="20250602190000 +0000"`)
}

func TestBuildXMLTV_WindowBoundariesAreStrict(t *testing.T) {
	t.Parallel()

	channels := []models.Channel{{ID: 1, Name: "C", EpgID: "c1"}}
	entries := []models.EPGEntry{
		// ends exactly at window start: excluded
		{ChannelID: 1, Title: "EndsAtStart", StartTime: testWindow.Start.Add(-time.Hour), EndTime: testWindow.Start},
		// starts exactly at window end: excluded
		{ChannelID: 1, Title: "StartsAtEnd", StartTime: testWindow.End, EndTime: testWindow.End.Add(time.Hour)},
		// fully inside: included
		{ChannelID: 1, Title: "Inside", StartTime: testWindow.Start.Add(time.Hour), EndTime: testWindow.Start.Add(2 * time.Hour)},
		// straddles window start: included
		{ChannelID: 1, Title: "Straddles", StartTime: testWindow.Start.Add(-time.Hour), EndTime: testWindow.Start.Add(time.Hour)},
	}

	out := BuildXMLTV(channels, entries, testWindow)
	assert.NotContains(t, out, "EndsAtStart")
	assert.NotContains(t, out, "StartsAtEnd")
	assert.Contains(t, out, "Inside")
	assert.Contains(t, out, "Straddles")
}

func TestBuildXMLTV_DeduplicatesChannelsByExternalID(t *testing.T) {
	t.Parallel()

	channels := []models.Channel{
		{ID: 1, Name: "First HD", EpgID: "shared.id"},
		{ID: 2, Name: "Second SD", EpgID: "shared.id"},
	}
	entries := []models.EPGEntry{
		{ChannelID: 2, Title: "On Second", StartTime: testWindow.Start.Add(time.Hour), EndTime: testWindow.Start.Add(2 * time.Hour)},
	}

	out := BuildXMLTV(channels, entries, testWindow)

	assert.Equal(t, 1, strings.Count(out, `<channel id="shared.id">`))
	assert.Contains(t, out, "First HD")
	assert.NotContains(t, out, "Second SD")
	// the duplicate's programmes still reference the shared id
	assert.Contains(t, out, `channel="shared.id"`)
	assert.Contains(t, out, "On Second")
}

func TestBuildXMLTV_DropsEntriesWithoutVisibleChannel(t *testing.T) {
	t.Parallel()

	channels := []models.Channel{{ID: 1, Name: "C", EpgID: "c1"}}
	entries := []models.EPGEntry{
		{ChannelID: 99, Title: "Orphan", StartTime: testWindow.Start.Add(time.Hour), EndTime: testWindow.Start.Add(2 * time.Hour)},
		{ChannelID: 1, Title: "ZeroTimes"},
	}

	out := BuildXMLTV(channels, entries, testWindow)
	assert.NotContains(t, out, "Orphan")
	assert.NotContains(t, out, "ZeroTimes")
}

func TestBuildXMLTV_SortsByChannelThenStart(t *testing.T) {
	t.Parallel()

	channels := []models.Channel{
		{ID: 2, Name: "B", EpgID: "b"},
		{ID: 1, Name: "A", EpgID: "a"},
	}
	entries := []models.EPGEntry{
		{ChannelID: 2, Title: "B-Late", StartTime: testWindow.Start.Add(3 * time.Hour), EndTime: testWindow.Start.Add(4 * time.Hour)},
		{ChannelID: 1, Title: "A-Late", StartTime: testWindow.Start.Add(3 * time.Hour), EndTime: testWindow.Start.Add(4 * time.Hour)},
		{ChannelID: 1, Title: "A-Early", StartTime: testWindow.Start.Add(time.Hour), EndTime: testWindow.Start.Add(2 * time.Hour)},
	}

	out := BuildXMLTV(channels, entries, testWindow)

	iAEarly := strings.Index(out, "A-Early")
	iALate := strings.Index(out, "A-Late")
	iBLate := strings.Index(out, "B-Late")
	require.True(t, iAEarly >= 0 && iALate >= 0 && iBLate >= 0)
	assert.Less(t, iAEarly, iALate)
	assert.Less(t, iALate, iBLate)
}

func TestBuildXMLTV_EscapesFreeText(t *testing.T) {
	t.Parallel()

	channels := []models.Channel{{ID: 1, Name: "Rock & Roll <TV>", EpgID: "rock"}}
	entries := []models.EPGEntry{{
		ChannelID:   1,
		StartTime:   time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC),
		Title:       `Bob's "Best" Show`,
		Description: "A & B < C",
	}}

	out := BuildXMLTV(channels, entries, testWindow)
	assert.Contains(t, out, "<display-name>Rock &amp; Roll &lt;TV&gt;</display-name>")
	assert.Contains(t, out, "<title>Bob&apos;s &quot;Best&quot; Show</title>")
	assert.Contains(t, out, "<desc>A &amp; B &lt; C</desc>")
	assert.NotContains(t, out, `Bob's "Best"`)
}

func TestBuildXMLTV_Deterministic(t *testing.T) {
	t.Parallel()

	channels := []models.Channel{
		{ID: 1, Name: "A", EpgID: "a"},
		{ID: 2, Name: "B", EpgID: "b"},
	}
	entries := []models.EPGEntry{
		{ChannelID: 1, Title: "P1", StartTime: testWindow.Start.Add(time.Hour), EndTime: testWindow.Start.Add(2 * time.Hour)},
		{ChannelID: 2, Title: "P2", StartTime: testWindow.Start.Add(time.Hour), EndTime: testWindow.Start.Add(2 * time.Hour)},
	}

	first := BuildXMLTV(channels, entries, testWindow)
	second := BuildXMLTV(channels, entries, testWindow)
	assert.Equal(t, first, second)
}
