package epg

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// xmltvTimeLayout is the XMLTV timestamp format; all output is UTC.
const xmltvTimeLayout = "20060102150405 +0000"

// BuildXMLTV renders the visible channels and their programme entries within
// the window into an XMLTV document.
//
// Channel elements are deduplicated by external id (EpgID, falling back to the
// internal id): the first channel wins, later ones sharing the id are dropped
// from the channel list while their programmes still reference the shared id.
// Entries whose channel is not in the visible set are dropped silently.
func BuildXMLTV(channels []models.Channel, entries []models.EPGEntry, window Window) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<tv generator-info-name="StreamNest">` + "\n")

	// channel id -> external id, first occurrence wins
	externalID := make(map[uint]string, len(channels))
	seen := make(map[string]bool, len(channels))
	for _, ch := range channels {
		id := ch.EpgID
		if id == "" {
			id = fmt.Sprintf("%d", ch.ID)
		}
		externalID[ch.ID] = id
		if seen[id] {
			continue
		}
		seen[id] = true

		b.WriteString(fmt.Sprintf("  <channel id=\"%s\">\n", escapeXML(id)))
		b.WriteString(fmt.Sprintf("    <display-name>%s</display-name>\n", escapeXML(ch.Name)))
		if ch.LogoURL != "" {
			b.WriteString(fmt.Sprintf("    <icon src=\"%s\"/>\n", escapeXML(ch.LogoURL)))
		}
		b.WriteString("  </channel>\n")
	}

	programmes := make([]models.EPGEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := externalID[e.ChannelID]; !ok {
			continue
		}
		if e.StartTime.IsZero() || e.EndTime.IsZero() {
			continue
		}
		if !window.Contains(e.StartTime, e.EndTime) {
			continue
		}
		programmes = append(programmes, e)
	}
	sort.SliceStable(programmes, func(i, j int) bool {
		if programmes[i].ChannelID != programmes[j].ChannelID {
			return programmes[i].ChannelID < programmes[j].ChannelID
		}
		return programmes[i].StartTime.Before(programmes[j].StartTime)
	})

	for _, e := range programmes {
		b.WriteString(fmt.Sprintf("  <programme start=\"%s\" stop=\"%s\" channel=\"%s\">\n",
			formatXMLTVTime(e.StartTime),
			formatXMLTVTime(e.EndTime),
			escapeXML(externalID[e.ChannelID])))
		b.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(e.Title)))
		if e.Description != "" {
			b.WriteString(fmt.Sprintf("    <desc>%s</desc>\n", escapeXML(e.Description)))
		}
		if e.Category != "" {
			b.WriteString(fmt.Sprintf("    <category>%s</category>\n", escapeXML(e.Category)))
		}
		if e.ImageURL != "" {
			b.WriteString(fmt.Sprintf("    <icon src=\"%s\"/>\n", escapeXML(e.ImageURL)))
		}
		b.WriteString("  </programme>\n")
	}

	b.WriteString("</tv>\n")
	return b.String()
}

func formatXMLTVTime(t time.Time) string {
	return t.UTC().Format(xmltvTimeLayout)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML entity-escapes free text for element content and attributes.
func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}
