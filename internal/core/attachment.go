package core

// Attachment is an opaque binary artwork blob with a media-type hint,
// fetched once per cycle and discarded after prompting.
type Attachment struct {
	Data []byte `json:"-"`
	MIME string `json:"mime"`
}
