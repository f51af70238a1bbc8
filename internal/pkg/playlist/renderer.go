package playlist

import (
	"fmt"
	"strings"

	"github.com/StreamNestTV/StreamNest/app/models"
)

// Options controls playlist-wide attributes.
type Options struct {
	// EPGURL cross-links the companion XMLTV document so clients can
	// auto-discover programme data. Emitted as url-tvg and x-tvg-url on the
	// #EXTM3U header when set.
	EPGURL string
}

// BuildM3U renders channels into an extended M3U document. Channels without a
// stream URL are skipped; clients choke on orphan #EXTINF lines.
func BuildM3U(channels []models.Channel, opts Options) string {
	var b strings.Builder

	b.WriteString("#EXTM3U")
	if opts.EPGURL != "" {
		tvg := sanitizeAttr(opts.EPGURL)
		b.WriteString(` url-tvg="` + tvg + `" x-tvg-url="` + tvg + `"`)
	}
	b.WriteString("\n")

	for _, ch := range channels {
		if strings.TrimSpace(ch.StreamURL) == "" {
			continue
		}
		b.WriteString(extinfLine(ch))
		b.WriteString("\n")
		b.WriteString(ch.StreamURL)
		b.WriteString("\n")
	}

	return b.String()
}

// extinfLine builds the attribute line for one channel. Attribute order is
// fixed; empty attributes are omitted entirely.
func extinfLine(ch models.Channel) string {
	var b strings.Builder
	b.WriteString("#EXTINF:-1")

	tvgID := ch.EpgID
	if tvgID == "" {
		tvgID = fmt.Sprintf("%d", ch.ID)
	}
	writeAttr(&b, "tvg-id", tvgID)
	writeAttr(&b, "tvg-name", ch.Name)
	writeAttr(&b, "tvg-logo", ch.LogoURL)
	writeAttr(&b, "group-title", ch.Category)
	writeAttr(&b, "tvg-country", ch.Country)
	writeAttr(&b, "tvg-language", ch.Language)

	b.WriteString(",")
	b.WriteString(sanitizeAttr(ch.Name))
	return b.String()
}

func writeAttr(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(sanitizeAttr(value))
	b.WriteString(`"`)
}

// sanitizeAttr keeps attribute values single-line and quote-safe. The format
// is quote-delimited and line-oriented, so embedded quotes or newlines would
// corrupt the document.
func sanitizeAttr(value string) string {
	value = strings.ReplaceAll(value, `"`, "'")
	value = strings.ReplaceAll(value, "\r\n", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	return value
}
