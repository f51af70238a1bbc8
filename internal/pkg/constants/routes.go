package constants

// Static route constants
const (
	PlaylistRoute       = "/playlist.m3u8"
	EPGRoute            = "/epg.xml"
	StatusRoute         = "/status"
	DevicePlaylistRoute = "/device/:mac/playlist.m3u8"
	DeviceEPGRoute      = "/device/:mac/epg.xml"
	DirectPlaylistRoute = "/direct/playlist.m3u8"
	DirectEPGRoute      = "/direct/epg.xml"
)
