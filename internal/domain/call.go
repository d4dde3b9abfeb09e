package domain

// MediaKind says whether a call attempt carries audio only or audio+video.
// The server never inspects the media itself, this is display meta for the
// callee's ring screen.
type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)
