// Package mpd wraps the gompd client with emcee's typed domain model.
//
// One Client holds one connection, and commands on it are strictly
// sequential; the idle Watcher runs on its own connection so waiting
// for events never blocks commands.
package mpd

import (
	"fmt"
	"strings"

	gompd "github.com/fhs/gompd/v2/mpd"

	"github.com/tessro/emcee/internal/core"
)

// Client provides high-level access to the music player daemon.
type Client struct {
	conn *gompd.Client
	addr string
}

var _ core.Daemon = (*Client)(nil)

// Dial connects to the daemon. Addresses containing a slash are unix
// socket paths; anything else is host[:port], defaulting to 6600.
func Dial(addr, password string) (*Client, error) {
	network, dial := networkFor(addr)

	var conn *gompd.Client
	var err error
	if password != "" {
		conn, err = gompd.DialAuthenticated(network, dial, password)
	} else {
		conn, err = gompd.Dial(network, dial)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", dial, err)
	}

	return &Client{conn: conn, addr: addr}, nil
}

func networkFor(addr string) (network, dial string) {
	if strings.Contains(addr, "/") {
		return "unix", addr
	}
	if !strings.Contains(addr, ":") {
		return "tcp", addr + ":6600"
	}
	return "tcp", addr
}

// Local reports whether the client is connected over a unix socket.
func (c *Client) Local() bool {
	network, _ := networkFor(c.addr)
	return network == "unix"
}

// Close terminates the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Ping checks that the connection is alive.
func (c *Client) Ping() error {
	return c.conn.Ping()
}

// Status fetches a snapshot of daemon state.
func (c *Client) Status() (core.PlaybackStatus, error) {
	attrs, err := c.conn.Status()
	if err != nil {
		return core.PlaybackStatus{}, fmt.Errorf("status: %w", err)
	}
	return ParseStatus(attrs), nil
}

// CurrentSong fetches the currently playing queue entry.
func (c *Client) CurrentSong() (core.Track, error) {
	attrs, err := c.conn.CurrentSong()
	if err != nil {
		return core.Track{}, fmt.Errorf("currentsong: %w", err)
	}
	return ParseTrack(attrs), nil
}

// SongByQueueID fetches one queue entry by its queue id.
func (c *Client) SongByQueueID(id int) (core.Track, error) {
	attrs, err := c.conn.Command("playlistid %d", id).Attrs()
	if err != nil {
		return core.Track{}, fmt.Errorf("playlistid %d: %w", id, err)
	}
	return ParseTrack(attrs), nil
}

// QueueTracks returns the whole queue in playback order.
func (c *Client) QueueTracks() ([]core.Track, error) {
	attrs, err := c.conn.PlaylistInfo(-1, -1)
	if err != nil {
		return nil, fmt.Errorf("playlistinfo: %w", err)
	}
	tracks := make([]core.Track, 0, len(attrs))
	for _, a := range attrs {
		tracks = append(tracks, ParseTrack(a))
	}
	return tracks, nil
}

// AlbumArt retrieves the cover file stored next to the track.
func (c *Client) AlbumArt(uri string) ([]byte, error) {
	return c.conn.AlbumArt(uri)
}

// EmbeddedPicture retrieves artwork embedded in the track's tags.
func (c *Client) EmbeddedPicture(uri string) ([]byte, error) {
	return c.conn.ReadPicture(uri)
}

// Update asks the daemon to rescan uri and returns the job token to
// poll for in Status.UpdatingJob.
func (c *Client) Update(uri string) (int, error) {
	job, err := c.conn.Update(uri)
	if err != nil {
		return 0, fmt.Errorf("update %q: %w", uri, err)
	}
	return job, nil
}

// AddToQueue appends uri to the queue and returns its new queue id.
func (c *Client) AddToQueue(uri string) (int, error) {
	id, err := c.conn.AddID(uri, -1)
	if err != nil {
		return 0, fmt.Errorf("addid %q: %w", uri, err)
	}
	return id, nil
}

// SetPriorityByID sets the queue priority of the song with the given id.
// Priorities only matter in random mode, where higher values play first.
func (c *Client) SetPriorityByID(prio, id int) error {
	if err := c.conn.Command("prioid %d %d", prio, id).OK(); err != nil {
		return fmt.Errorf("prioid %d %d: %w", prio, id, err)
	}
	return nil
}

// MusicDirectory reports the daemon's library root. The config command
// only answers over a local socket; over TCP the daemon refuses it.
func (c *Client) MusicDirectory() (string, error) {
	attrs, err := c.conn.Command("config").Attrs()
	if err != nil {
		return "", fmt.Errorf("config: %w (only available over a local socket)", err)
	}
	dir, ok := attrs["music_directory"]
	if !ok || dir == "" {
		return "", fmt.Errorf("config: daemon did not report music_directory")
	}
	return dir, nil
}
