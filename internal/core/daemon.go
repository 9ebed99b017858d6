package core

// Daemon defines the commands emcee issues to the playback daemon.
// Implementations hold a single connection; commands are strictly
// sequential and must never be interleaved.
type Daemon interface {
	// State queries
	Status() (PlaybackStatus, error)
	CurrentSong() (Track, error)
	SongByQueueID(id int) (Track, error)

	// Artwork retrieval
	AlbumArt(uri string) ([]byte, error)
	EmbeddedPicture(uri string) ([]byte, error)

	// Library and queue manipulation
	Update(uri string) (job int, err error)
	AddToQueue(uri string) (id int, err error)
	SetPriorityByID(prio, id int) error

	// MusicDirectory reports the library root. Only available over a
	// local socket connection.
	MusicDirectory() (string, error)

	Ping() error
	Close() error
}
